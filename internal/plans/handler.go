package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/stargym/internal/auth"
	"github.com/2beens/stargym/internal/live"
	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/internal/training"
	"github.com/2beens/stargym/internal/training/stats"
	"github.com/2beens/stargym/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=plans_test

const maxPlanBodyBytes = 4 << 20

type planService interface {
	Save(ctx context.Context, owner training.Owner, plan training.Plan) (*training.Plan, error)
	Delete(ctx context.Context, owner training.Owner, id string) error
	List(ctx context.Context, owner training.Owner) ([]training.Plan, error)
	Subscribe(ctx context.Context, owner training.Owner, onChange func(PlanSnapshot)) (func(), error)
	ToggleWorkoutComplete(ctx context.Context, owner training.Owner, planID string, phaseIndex int, date string) (*training.Plan, error)
}

type summarizer interface {
	Aggregate(plans []training.Plan) stats.Summary
}

type DashboardResponse struct {
	Today          string                      `json:"today"`
	TodaysWorkouts []training.ScheduledWorkout `json:"todaysWorkouts"`
	ActivePlans    int                         `json:"activePlans"`
	Stats          stats.Summary               `json:"stats"`
}

type CalendarDay struct {
	Date     string                      `json:"date"`
	Workouts []training.ScheduledWorkout `json:"workouts"`
}

type CalendarResponse struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type Handler struct {
	service        planService
	summarizer     summarizer
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewHandler(service planService, summarizer summarizer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		summarizer:     summarizer,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.list")
	defer span.End()

	owner, ok := ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	plans, err := handler.service.List(ctx, owner)
	if err != nil {
		WriteError(w, "list plans", err)
		return
	}

	pkg.WriteJSONResponseOK(w, plans)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.create")
	defer span.End()

	owner, ok := ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	plan, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}
	// ids are assigned by the server
	plan.ID = ""
	plan.Version = 0

	saved, err := handler.service.Save(ctx, owner, *plan)
	if err != nil {
		WriteError(w, "create plan", err)
		return
	}

	pkg.WriteJSON(w, saved, http.StatusCreated)
}

func (handler *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.replace")
	defer span.End()

	owner, ok := ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, plan id empty", http.StatusBadRequest)
		return
	}

	plan, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}
	plan.ID = id

	saved, err := handler.service.Save(ctx, owner, *plan)
	if err != nil {
		WriteError(w, "replace plan", err)
		return
	}

	pkg.WriteJSONResponseOK(w, saved)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.delete")
	defer span.End()

	owner, ok := ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, plan id empty", http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(ctx, owner, id); err != nil {
		WriteError(w, "delete plan", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleToggleWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.toggle")
	defer span.End()

	owner, ok := ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	phaseIndex, err := strconv.Atoi(vars["phase"])
	if err != nil {
		http.Error(w, "error, phase index NaN", http.StatusBadRequest)
		return
	}
	date := vars["date"]
	if _, err := training.ParseDate(date); err != nil {
		http.Error(w, "error, invalid workout date", http.StatusBadRequest)
		return
	}

	saved, err := handler.service.ToggleWorkoutComplete(ctx, owner, vars["id"], phaseIndex, date)
	if err != nil {
		WriteError(w, "toggle workout", err)
		return
	}

	pkg.WriteJSONResponseOK(w, saved)
}

func (handler *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	live.ServeSnapshots[training.Plan](w, r, func(ctx context.Context, onChange func(PlanSnapshot)) (func(), error) {
		return handler.service.Subscribe(ctx, owner, onChange)
	}, handler.countSnapshot)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.stats")
	defer span.End()

	owner, ok := ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	plans, err := handler.service.List(ctx, owner)
	if err != nil {
		WriteError(w, "stats", err)
		return
	}

	pkg.WriteJSONResponseOK(w, handler.summarizer.Aggregate(plans))
}

// HandleDashboard serves today's workouts of active plans; ?date=YYYY-MM-DD overrides today.
func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.dashboard")
	defer span.End()

	owner, ok := ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	today := r.URL.Query().Get("date")
	if today == "" {
		today = training.Today(handler.now(), time.UTC)
	} else if _, err := training.ParseDate(today); err != nil {
		http.Error(w, "error, invalid date", http.StatusBadRequest)
		return
	}

	plans, err := handler.service.List(ctx, owner)
	if err != nil {
		WriteError(w, "dashboard", err)
		return
	}

	pkg.WriteJSONResponseOK(w, DashboardResponse{
		Today:          today,
		TodaysWorkouts: training.TodaysWorkouts(plans, today),
		ActivePlans:    training.CountActive(plans),
		Stats:          handler.summarizer.Aggregate(plans),
	})
}

// HandleCalendar groups the workouts of a month (?month=YYYY-MM, current month by default) by date.
func (handler *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.calendar")
	defer span.End()

	owner, ok := ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = handler.now().UTC().Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		http.Error(w, "error, invalid month", http.StatusBadRequest)
		return
	}

	plans, err := handler.service.List(ctx, owner)
	if err != nil {
		WriteError(w, "calendar", err)
		return
	}

	byDate := training.WorkoutsInMonth(plans, month)
	days := make([]CalendarDay, 0, len(byDate))
	for _, date := range training.SortedDates(byDate) {
		days = append(days, CalendarDay{Date: date, Workouts: byDate[date]})
	}

	pkg.WriteJSONResponseOK(w, CalendarResponse{Month: month, Days: days})
}

func (handler *Handler) countSnapshot() {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLiveSnapshotsSent.Inc()
	}
}

func ownerOrUnauthorized(w http.ResponseWriter, r *http.Request) (training.Owner, bool) {
	owner, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return owner, ok
}

func decodePlanRequest(w http.ResponseWriter, r *http.Request) (*training.Plan, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPlanBodyBytes)
	var plan training.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		log.Errorf("plans, unmarshal plan: %s", err)
		http.Error(w, "invalid plan", http.StatusBadRequest)
		return nil, false
	}
	return &plan, true
}

// WriteError answers err with the status code matching its cause.
func WriteError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, training.ErrInvalidPlan):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, training.ErrWorkoutNotFound):
		log.Debugf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrStaleWrite), errors.Is(err, ErrPlanExists):
		log.Warnf("%s: %s", op, err)
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
