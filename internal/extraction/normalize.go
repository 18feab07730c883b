package extraction

import (
	"encoding/json"
	"strings"

	"github.com/2beens/stargym/internal/training"
)

// raw* types mirror what the model returns; pointers tell a missing field from a zero one.

type rawExercise struct {
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	ScoreType *string  `json:"scoreType"`
	Sets      *float64 `json:"sets"`
	Reps      *float64 `json:"reps"`
	Weight    *float64 `json:"weight"`
	Time      *string  `json:"time"`
	Distance  *float64 `json:"distance"`
}

type rawWorkout struct {
	Date        *string       `json:"date"`
	Name        *string       `json:"name"`
	IsCompleted *bool         `json:"isCompleted"`
	Exercises   []rawExercise `json:"exercises"`
}

type rawPhase struct {
	Name          *string      `json:"name"`
	DailyWorkouts []rawWorkout `json:"dailyWorkouts"`
}

type rawPlan struct {
	Name         *string    `json:"name"`
	TrainingMode *string    `json:"trainingMode"`
	Phases       []rawPhase `json:"phases"`
}

// stringOr falls back to def only for absent fields; present values are kept as sent.
func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func numberOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (r rawExercise) normalize(categories training.CategorySet) training.Exercise {
	return training.Exercise{
		Name:      stringOr(r.Name, ""),
		Category:  stringOr(r.Category, categories.Default()),
		ScoreType: training.ScoreType(stringOr(r.ScoreType, string(training.ScoreWeightReps))),
		Sets:      numberOr(r.Sets),
		Reps:      numberOr(r.Reps),
		Weight:    numberOr(r.Weight),
		Time:      stringOr(r.Time, ""),
		Distance:  numberOr(r.Distance),
	}
}

func normalizeExercises(raw []rawExercise, categories training.CategorySet) []training.Exercise {
	exercises := make([]training.Exercise, 0, len(raw))
	for _, r := range raw {
		exercises = append(exercises, r.normalize(categories))
	}
	return exercises
}

func (r rawPlan) normalize() training.Plan {
	plan := training.Plan{
		Name:         stringOr(r.Name, ""),
		TrainingMode: training.TrainingMode(stringOr(r.TrainingMode, string(training.ModeGeneral))),
		Phases:       make([]training.Phase, 0, len(r.Phases)),
	}
	categories := plan.Categories()

	for _, rp := range r.Phases {
		phase := training.Phase{
			Name:          stringOr(rp.Name, ""),
			DailyWorkouts: make([]training.DailyWorkout, 0, len(rp.DailyWorkouts)),
		}
		for _, rw := range rp.DailyWorkouts {
			completed := false
			if rw.IsCompleted != nil {
				completed = *rw.IsCompleted
			}
			phase.DailyWorkouts = append(phase.DailyWorkouts, training.DailyWorkout{
				Date:        stringOr(rw.Date, ""),
				Name:        stringOr(rw.Name, ""),
				IsCompleted: completed,
				Exercises:   normalizeExercises(rw.Exercises, categories),
			})
		}
		plan.Phases = append(plan.Phases, phase)
	}

	return plan
}

// stripCodeFence removes a markdown code fence some model answers wrap JSON in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

// ParseExercises decodes a model answer holding a JSON array of exercises and fills defaults.
func ParseExercises(text string, categories training.CategorySet) ([]training.Exercise, error) {
	var raw []rawExercise
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return nil, malformed("answer is not a list of exercises", err)
	}
	return normalizeExercises(raw, categories), nil
}

// ParsePlan decodes a model answer holding a JSON plan object and fills defaults.
func ParsePlan(text string) (*training.Plan, error) {
	var raw rawPlan
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return nil, malformed("answer is not a plan", err)
	}
	plan := raw.normalize()
	return &plan, nil
}
