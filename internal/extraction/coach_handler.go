package extraction

import (
	"context"
	"net/http"

	"github.com/2beens/stargym/internal/auth"
	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/internal/training"
	"github.com/2beens/stargym/internal/training/stats"
	"github.com/2beens/stargym/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=coach_handler_mocks_test.go -package=extraction_test

type coach interface {
	AnalyzeTraining(ctx context.Context, summary stats.Summary) (string, error)
	AdvisePRs(ctx context.Context, records []training.PersonalRecord) (string, error)
}

type planLister interface {
	List(ctx context.Context, owner training.Owner) ([]training.Plan, error)
}

type recordLister interface {
	List(ctx context.Context, owner training.Owner) ([]training.PersonalRecord, error)
}

type summarizer interface {
	Aggregate(plans []training.Plan) stats.Summary
}

type CoachResponse struct {
	RequestID string `json:"requestId"`
	Markdown  string `json:"markdown"`
}

// CoachHandler serves the free-text AI reviews of training stats and personal records.
type CoachHandler struct {
	*Handler
	coach      coach
	plans      planLister
	records    recordLister
	summarizer summarizer
}

func NewCoachHandler(
	handler *Handler,
	coach coach,
	plans planLister,
	records recordLister,
	summarizer summarizer,
) *CoachHandler {
	return &CoachHandler{
		Handler:    handler,
		coach:      coach,
		plans:      plans,
		records:    records,
		summarizer: summarizer,
	}
}

func (handler *CoachHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.analysis")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	plans, err := handler.plans.List(ctx, owner)
	if err != nil {
		log.Errorf("coach analysis, list plans for %s: %s", owner.UserID, err)
		http.Error(w, "failed to load plans", http.StatusInternalServerError)
		return
	}
	summary := handler.summarizer.Aggregate(plans)

	var markdown string
	requestID, ok := handler.run(ctx, w, r, "analysis", func(callCtx context.Context) (err error) {
		markdown, err = handler.coach.AnalyzeTraining(callCtx, summary)
		return err
	})
	if !ok {
		return
	}

	pkg.WriteJSON(w, CoachResponse{RequestID: requestID, Markdown: markdown}, http.StatusOK)
}

func (handler *CoachHandler) HandlePRAdvice(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.prs")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := handler.records.List(ctx, owner)
	if err != nil {
		log.Errorf("coach pr advice, list records for %s: %s", owner.UserID, err)
		http.Error(w, "failed to load personal records", http.StatusInternalServerError)
		return
	}

	var markdown string
	requestID, ok := handler.run(ctx, w, r, "pr_advice", func(callCtx context.Context) (err error) {
		markdown, err = handler.coach.AdvisePRs(callCtx, records)
		return err
	})
	if !ok {
		return
	}

	pkg.WriteJSON(w, CoachResponse{RequestID: requestID, Markdown: markdown}, http.StatusOK)
}
