package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/stargym/internal/auth"
	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/internal/training"
	"github.com/2beens/stargym/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=extraction_test

const (
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 16 << 20
)

type extractor interface {
	ExtractWorkout(ctx context.Context, image Image, mode training.TrainingMode) ([]training.Exercise, error)
	SuggestWorkout(ctx context.Context, goal string, mode training.TrainingMode) ([]training.Exercise, error)
	ExtractPlan(ctx context.Context, image Image) (*training.Plan, error)
}

type planStager interface {
	Stage(ctx context.Context, owner training.Owner, plan training.Plan) (*StagedPlan, error)
}

type ExtractRequest struct {
	Image        Image                 `json:"image"`
	Goal         string                `json:"goal"`
	TrainingMode training.TrainingMode `json:"trainingMode"`
}

type ExercisesResponse struct {
	RequestID string              `json:"requestId"`
	Exercises []training.Exercise `json:"exercises"`
}

type StagedPlanResponse struct {
	RequestID string      `json:"requestId"`
	Import    *StagedPlan `json:"import"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Handler struct {
	extractor extractor
	stager    planStager
	tracker   *Tracker
	timeout   time.Duration
}

func NewHandler(extractor extractor, stager planStager, tracker *Tracker, timeout time.Duration) *Handler {
	return &Handler{
		extractor: extractor,
		stager:    stager,
		tracker:   tracker,
		timeout:   timeout,
	}
}

func (handler *Handler) HandleExtractWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.extraction.workout")
	defer span.End()

	req, ok := decodeExtractRequest(w, r)
	if !ok {
		return
	}

	var exercises []training.Exercise
	requestID, ok := handler.run(ctx, w, r, "workout", func(callCtx context.Context) (err error) {
		exercises, err = handler.extractor.ExtractWorkout(callCtx, req.Image, req.TrainingMode)
		return err
	})
	if !ok {
		return
	}

	pkg.WriteJSON(w, ExercisesResponse{RequestID: requestID, Exercises: exercises}, http.StatusOK)
}

func (handler *Handler) HandleSuggestWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.extraction.suggestion")
	defer span.End()

	req, ok := decodeExtractRequest(w, r)
	if !ok {
		return
	}

	var exercises []training.Exercise
	requestID, ok := handler.run(ctx, w, r, "suggestion", func(callCtx context.Context) (err error) {
		exercises, err = handler.extractor.SuggestWorkout(callCtx, req.Goal, req.TrainingMode)
		return err
	})
	if !ok {
		return
	}

	pkg.WriteJSON(w, ExercisesResponse{RequestID: requestID, Exercises: exercises}, http.StatusOK)
}

// HandleExtractPlan extracts a whole plan and stages it for review; nothing is saved as a plan yet.
func (handler *Handler) HandleExtractPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.extraction.plan")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	req, ok := decodeExtractRequest(w, r)
	if !ok {
		return
	}

	var plan *training.Plan
	requestID, ok := handler.run(ctx, w, r, "plan", func(callCtx context.Context) (err error) {
		plan, err = handler.extractor.ExtractPlan(callCtx, req.Image)
		return err
	})
	if !ok {
		return
	}

	staged, err := handler.stager.Stage(context.WithoutCancel(ctx), owner, *plan)
	if err != nil {
		log.Errorf("extract plan [%s], stage import: %s", requestID, err)
		http.Error(w, "failed to stage extracted plan", http.StatusInternalServerError)
		return
	}

	log.Debugf("extracted plan [%s] staged as import [%s]", requestID, staged.ID)
	pkg.WriteJSON(w, StagedPlanResponse{RequestID: requestID, Import: staged}, http.StatusCreated)
}

func (handler *Handler) HandleAbandonRequest(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, request id empty", http.StatusBadRequest)
		return
	}

	if err := handler.tracker.Abandon(owner, id); err != nil {
		http.Error(w, "extraction request not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// run executes call on a context detached from the HTTP request and bounded by the
// extraction timeout. It writes the error response itself and returns false when
// the call failed or the request was abandoned meanwhile.
func (handler *Handler) run(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	variant string,
	call func(ctx context.Context) error,
) (string, bool) {
	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return requestID, false
	}

	req, err := handler.tracker.Begin(r.Context(), owner, requestID, variant)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return requestID, false
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handler.timeout)
	defer cancel()

	if err := call(callCtx); err != nil {
		if !req.Fail() {
			writeAbandoned(w, requestID)
			return requestID, false
		}
		log.Errorf("extraction [%s] %s: %s", variant, requestID, err)
		WriteError(w, err)
		return requestID, false
	}

	if !req.Complete() {
		log.Debugf("extraction [%s] %s finished after it was abandoned, result discarded", variant, requestID)
		writeAbandoned(w, requestID)
		return requestID, false
	}

	return requestID, true
}

func decodeExtractRequest(w http.ResponseWriter, r *http.Request) (*ExtractRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("extraction, unmarshal request: %s", err)
		http.Error(w, "invalid extraction request", http.StatusBadRequest)
		return nil, false
	}
	if req.TrainingMode == "" {
		req.TrainingMode = training.ModeGeneral
	}
	if !req.TrainingMode.Valid() {
		http.Error(w, "unknown training mode", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func writeAbandoned(w http.ResponseWriter, requestID string) {
	pkg.WriteJSON(w, ErrorResponse{
		Error:   string(StateAbandoned),
		Message: "extraction request " + requestID + " was abandoned",
	}, http.StatusConflict)
}

// WriteError maps extraction errors to status codes: missing input is the caller's
// fault, everything coming back from the AI service is a bad gateway.
func WriteError(w http.ResponseWriter, err error) {
	var extractionErr *Error
	if !errors.As(err, &extractionErr) {
		http.Error(w, "extraction failed", http.StatusInternalServerError)
		return
	}

	status := http.StatusBadGateway
	if extractionErr.Kind == KindMissingInput {
		status = http.StatusBadRequest
	}
	pkg.WriteJSON(w, ErrorResponse{
		Error:   string(extractionErr.Kind),
		Message: extractionErr.UserMessage(),
	}, status)
}
