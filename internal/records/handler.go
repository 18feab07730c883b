package records

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/stargym/internal/auth"
	"github.com/2beens/stargym/internal/live"
	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/internal/training"
	"github.com/2beens/stargym/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=records_test

const maxRecordBodyBytes = 64 << 10

type recordService interface {
	Save(ctx context.Context, owner training.Owner, record training.PersonalRecord) (*training.PersonalRecord, error)
	Delete(ctx context.Context, owner training.Owner, id string) error
	List(ctx context.Context, owner training.Owner) ([]training.PersonalRecord, error)
	Subscribe(ctx context.Context, owner training.Owner, onChange func(RecordSnapshot)) (func(), error)
}

type Handler struct {
	service        recordService
	metricsManager *metrics.Manager
}

func NewHandler(service recordService, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

// HandleList serves the records grouped by category.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.list")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := handler.service.List(ctx, owner)
	if err != nil {
		WriteError(w, "list records", err)
		return
	}

	pkg.WriteJSONResponseOK(w, training.GroupRecords(records))
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.create")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	record, ok := decodeRecordRequest(w, r)
	if !ok {
		return
	}
	record.ID = ""

	saved, err := handler.service.Save(ctx, owner, *record)
	if err != nil {
		WriteError(w, "create record", err)
		return
	}

	pkg.WriteJSON(w, saved, http.StatusCreated)
}

// HandleUpdate merges the non-empty fields of the body into the record.
func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.update")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, record id empty", http.StatusBadRequest)
		return
	}

	record, ok := decodeRecordRequest(w, r)
	if !ok {
		return
	}
	record.ID = id

	saved, err := handler.service.Save(ctx, owner, *record)
	if err != nil {
		WriteError(w, "update record", err)
		return
	}

	pkg.WriteJSONResponseOK(w, saved)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.delete")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, record id empty", http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(ctx, owner, id); err != nil {
		WriteError(w, "delete record", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	live.ServeSnapshots[training.PersonalRecord](w, r, func(ctx context.Context, onChange func(RecordSnapshot)) (func(), error) {
		return handler.service.Subscribe(ctx, owner, onChange)
	}, func() {
		if handler.metricsManager != nil {
			handler.metricsManager.CounterLiveSnapshotsSent.Inc()
		}
	})
}

func decodeRecordRequest(w http.ResponseWriter, r *http.Request) (*training.PersonalRecord, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRecordBodyBytes)
	var record training.PersonalRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Errorf("records, unmarshal record: %s", err)
		http.Error(w, "invalid record", http.StatusBadRequest)
		return nil, false
	}
	return &record, true
}

func WriteError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, training.ErrInvalidRecord):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrRecordNotFound):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
