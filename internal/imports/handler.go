package imports

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/2beens/stargym/internal/auth"
	"github.com/2beens/stargym/internal/extraction"
	"github.com/2beens/stargym/internal/plans"
	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/internal/training"
	"github.com/2beens/stargym/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=imports_test

const maxOpsBodyBytes = 1 << 20

type importStore interface {
	Get(ctx context.Context, owner training.Owner, id string) (*extraction.StagedPlan, error)
	Save(ctx context.Context, owner training.Owner, staged extraction.StagedPlan) error
	Delete(ctx context.Context, owner training.Owner, id string) error
}

type planSaver interface {
	Get(ctx context.Context, owner training.Owner, id string) (*training.Plan, error)
	Save(ctx context.Context, owner training.Owner, plan training.Plan) (*training.Plan, error)
}

type PatchRequest struct {
	Ops []extraction.Op `json:"ops"`
}

type CommitRequest struct {
	// TargetPlanID selects the plan the staged phases are appended to.
	// Empty commits the import as a new plan.
	TargetPlanID string `json:"targetPlanId"`
}

type Handler struct {
	store importStore
	plans planSaver
}

func NewHandler(store importStore, plans planSaver) *Handler {
	return &Handler{
		store: store,
		plans: plans,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.imports.get")
	defer span.End()

	owner, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	staged, err := handler.store.Get(ctx, owner, id)
	if err != nil {
		writeError(w, "get import", err)
		return
	}

	pkg.WriteJSONResponseOK(w, staged)
}

// HandlePatch applies a batch of ops to the staged plan. Either all ops apply or none.
func (handler *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.imports.patch")
	defer span.End()

	owner, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxOpsBodyBytes)
	var req PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid ops", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("import.ops", len(req.Ops)))

	staged, err := handler.store.Get(ctx, owner, id)
	if err != nil {
		writeError(w, "patch import", err)
		return
	}

	if err := staged.ApplyAll(req.Ops); err != nil {
		writeError(w, "patch import", err)
		return
	}

	if err := handler.store.Save(ctx, owner, *staged); err != nil {
		writeError(w, "patch import", err)
		return
	}

	pkg.WriteJSONResponseOK(w, staged)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.imports.delete")
	defer span.End()

	owner, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	if err := handler.store.Delete(ctx, owner, id); err != nil {
		writeError(w, "delete import", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCommit saves the staged plan as a new plan, or appends its phases to the
// target plan. The import is dropped only once the plan is saved.
func (handler *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.imports.commit")
	defer span.End()

	owner, id, ok := ownerAndID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxOpsBodyBytes)
	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid commit request", http.StatusBadRequest)
		return
	}

	staged, err := handler.store.Get(ctx, owner, id)
	if err != nil {
		writeError(w, "commit import", err)
		return
	}

	var (
		plan   training.Plan
		status = http.StatusCreated
	)
	if req.TargetPlanID == "" {
		plan = staged.IntoNewPlan()
	} else {
		span.SetAttributes(attribute.String("import.target", req.TargetPlanID))
		target, err := handler.plans.Get(ctx, owner, req.TargetPlanID)
		if errors.Is(err, plans.ErrPlanNotFound) {
			http.Error(w, "selected target plan does not exist", http.StatusNotFound)
			return
		}
		if err != nil {
			plans.WriteError(w, "commit import, get target", err)
			return
		}
		plan = staged.IntoExisting(*target)
		status = http.StatusOK
	}

	saved, err := handler.plans.Save(ctx, owner, plan)
	if err != nil {
		plans.WriteError(w, "commit import", err)
		return
	}

	if err := handler.store.Delete(context.WithoutCancel(ctx), owner, id); err != nil && !errors.Is(err, ErrImportNotFound) {
		// the plan is saved, a leftover import just expires
		log.Errorf("commit import [%s], drop staged plan: %s", id, err)
	}

	pkg.WriteJSON(w, saved, status)
}

func ownerAndID(w http.ResponseWriter, r *http.Request) (training.Owner, string, bool) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return training.Owner{}, "", false
	}
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, import id empty", http.StatusBadRequest)
		return training.Owner{}, "", false
	}
	return owner, id, true
}

func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrImportNotFound):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, extraction.ErrInvalidOp):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
