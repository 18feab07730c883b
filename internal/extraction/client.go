package extraction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/stargym/internal/gemini"
	"github.com/2beens/stargym/internal/telemetry/metrics"
	"github.com/2beens/stargym/internal/telemetry/tracing"
	"github.com/2beens/stargym/internal/training"
	"github.com/2beens/stargym/internal/training/stats"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=client_mocks_test.go -package=extraction_test

type generator interface {
	GenerateContent(ctx context.Context, request gemini.GenerateContentRequest) (*gemini.GenerateContentResponse, error)
}

const defaultImageMimeType = "image/png"

// Image is an uploaded picture of a workout or a plan.
type Image struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

func (i Image) Empty() bool {
	return len(i.Data) == 0
}

func (i Image) inlineData() *gemini.InlineData {
	mimeType := i.MimeType
	if mimeType == "" {
		mimeType = defaultImageMimeType
	}
	return &gemini.InlineData{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(i.Data),
	}
}

// Client turns images and goals into structured training data using a generative model.
type Client struct {
	gen            generator
	metricsManager *metrics.Manager
	// Now is used to date extracted plans, injectable for tests.
	Now func() time.Time
}

func NewClient(gen generator, metricsManager *metrics.Manager) *Client {
	return &Client{
		gen:            gen,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

// ExtractWorkout reads the exercises of a single workout from an image.
func (c *Client) ExtractWorkout(ctx context.Context, image Image, mode training.TrainingMode) ([]training.Exercise, error) {
	if image.Empty() {
		return nil, missingInput("please upload or paste an image first")
	}

	categories := training.CategoriesFor(mode)
	text, err := c.generate(ctx, "workout", gemini.GenerateContentRequest{
		Contents:         gemini.UserPrompt(workoutImagePrompt(categories), image.inlineData()),
		GenerationConfig: gemini.JSONOutput(WorkoutSchema(categories)),
	})
	if err != nil {
		return nil, err
	}

	return ParseExercises(text, categories)
}

// SuggestWorkout asks for a handful of exercises matching a training goal.
func (c *Client) SuggestWorkout(ctx context.Context, goal string, mode training.TrainingMode) ([]training.Exercise, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, missingInput("please pick a training goal first")
	}

	categories := training.CategoriesFor(mode)
	text, err := c.generate(ctx, "suggestion", gemini.GenerateContentRequest{
		Contents:         gemini.UserPrompt(suggestionPrompt(goal, categories), nil),
		GenerationConfig: gemini.JSONOutput(WorkoutSchema(categories)),
	})
	if err != nil {
		return nil, err
	}

	return ParseExercises(text, categories)
}

// ExtractPlan reads a whole multi-phase plan from an image. The result is not stored.
func (c *Client) ExtractPlan(ctx context.Context, image Image) (*training.Plan, error) {
	if image.Empty() {
		return nil, missingInput("please upload or paste an image of the plan first")
	}

	text, err := c.generate(ctx, "plan", gemini.GenerateContentRequest{
		Contents:         gemini.UserPrompt(planImagePrompt(nextMonday(c.Now())), image.inlineData()),
		GenerationConfig: gemini.JSONOutput(PlanSchema()),
	})
	if err != nil {
		return nil, err
	}

	return ParsePlan(text)
}

// AnalyzeTraining writes a markdown performance review of the statistics summary.
func (c *Client) AnalyzeTraining(ctx context.Context, summary stats.Summary) (string, error) {
	if summary.TotalVolume == 0 && summary.CompletedWorkouts == 0 && len(summary.PieData) == 0 {
		return "", missingInput("there is no training data to analyze yet")
	}

	statsJson, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal stats: %w", err)
	}

	text, err := c.generate(ctx, "analysis", gemini.GenerateContentRequest{
		Contents: gemini.UserPrompt(analysisPrompt(statsJson), nil),
	})
	return strings.TrimSpace(text), err
}

// AdvisePRs writes markdown coaching advice based on personal records.
func (c *Client) AdvisePRs(ctx context.Context, records []training.PersonalRecord) (string, error) {
	if len(records) == 0 {
		return "", missingInput("add a few personal records first")
	}

	recordsJson, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal personal records: %w", err)
	}

	text, err := c.generate(ctx, "pr_advice", gemini.GenerateContentRequest{
		Contents: gemini.UserPrompt(recordsAdvicePrompt(recordsJson), nil),
	})
	return strings.TrimSpace(text), err
}

func (c *Client) generate(ctx context.Context, variant string, request gemini.GenerateContentRequest) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "extraction."+variant)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("extraction.variant", variant))

	start := time.Now()
	outcome := "ok"
	defer func() {
		if c.metricsManager == nil {
			return
		}
		c.metricsManager.HistogramExtractionDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())
		c.metricsManager.CounterExtractions.WithLabelValues(variant, outcome).Inc()
	}()

	resp, err := c.gen.GenerateContent(ctx, request)
	if err != nil {
		outcome = string(KindRemoteFailure)
		log.Errorf("extraction [%s], generate content: %s", variant, err)

		if errors.Is(err, gemini.ErrMalformedResponse) {
			outcome = string(KindMalformedResponse)
			return "", malformed("response is not a valid AI service answer", err)
		}

		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) {
			return "", &Error{Kind: KindRemoteFailure, Detail: apiErr.Error(), Err: err}
		}
		return "", &Error{Kind: KindRemoteFailure, Detail: "the AI service is unreachable", Err: err}
	}

	text, ok := resp.FirstText()
	if !ok {
		outcome = string(KindMalformedResponse)
		log.Warnf("extraction [%s]: response without text", variant)
		return "", malformed("response has no text", nil)
	}

	return text, nil
}
