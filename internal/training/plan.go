package training

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrInvalidPlan     = errors.New("invalid plan")
	ErrWorkoutNotFound = errors.New("workout not found")
)

type PlanType string

const (
	PlanMain  PlanType = "main"
	PlanRehab PlanType = "rehab"
)

type PlanStatus string

const (
	StatusActive PlanStatus = "active"
	StatusTodo   PlanStatus = "todo"
)

// Owner addresses a user's documents inside a tenant namespace.
type Owner struct {
	AppID  string
	UserID string
}

type DailyWorkout struct {
	// Date is a calendar date, YYYY-MM-DD.
	Date        string     `json:"date"`
	Name        string     `json:"name"`
	IsCompleted bool       `json:"isCompleted"`
	Exercises   []Exercise `json:"exercises"`
}

func (w DailyWorkout) Volume() float64 {
	var volume float64
	for _, e := range w.Exercises {
		volume += e.Volume()
	}
	return volume
}

type Phase struct {
	Name          string         `json:"name"`
	DailyWorkouts []DailyWorkout `json:"dailyWorkouts"`
}

type Plan struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name"`
	Type         PlanType     `json:"type"`
	Status       PlanStatus   `json:"status"`
	TrainingMode TrainingMode `json:"trainingMode"`
	Phases       []Phase      `json:"phases"`
	CreatedAt    time.Time    `json:"createdAt"`
	// Version is bumped on every stored write; a write must carry the version it was based on.
	Version int `json:"version"`
}

func (p *Plan) Categories() CategorySet {
	return CategoriesFor(p.TrainingMode)
}

// ApplyDefaults fills enum fields left empty and normalizes nil lists.
func (p *Plan) ApplyDefaults() {
	if p.Type == "" {
		p.Type = PlanMain
	}
	if p.Status == "" {
		p.Status = StatusTodo
	}
	if p.TrainingMode == "" {
		p.TrainingMode = ModeGeneral
	}
	if p.Phases == nil {
		p.Phases = []Phase{}
	}
	for i := range p.Phases {
		phase := &p.Phases[i]
		if phase.DailyWorkouts == nil {
			phase.DailyWorkouts = []DailyWorkout{}
		}
		for j := range phase.DailyWorkouts {
			workout := &phase.DailyWorkouts[j]
			if workout.Exercises == nil {
				workout.Exercises = []Exercise{}
			}
			for k := range workout.Exercises {
				if workout.Exercises[k].ScoreType == "" {
					workout.Exercises[k].ScoreType = ScoreWeightReps
				}
			}
		}
	}
}

func (p *Plan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlan)
	}
	if p.Type != PlanMain && p.Type != PlanRehab {
		return fmt.Errorf("%w: unknown type [%s]", ErrInvalidPlan, p.Type)
	}
	if p.Status != StatusActive && p.Status != StatusTodo {
		return fmt.Errorf("%w: unknown status [%s]", ErrInvalidPlan, p.Status)
	}
	if !p.TrainingMode.Valid() {
		return fmt.Errorf("%w: unknown training mode [%s]", ErrInvalidPlan, p.TrainingMode)
	}
	for i, phase := range p.Phases {
		for j, workout := range phase.DailyWorkouts {
			if workout.Date != "" {
				if _, err := ParseDate(workout.Date); err != nil {
					return fmt.Errorf("%w: phase %d workout %d: %s", ErrInvalidPlan, i, j, err)
				}
			}
			for k, e := range workout.Exercises {
				if !e.ScoreType.Valid() {
					return fmt.Errorf("%w: phase %d workout %d exercise %d: unknown score type [%s]", ErrInvalidPlan, i, j, k, e.ScoreType)
				}
			}
		}
	}
	return nil
}

// ValidateCategories checks every exercise category against the plan's mode vocabulary.
// It only runs when a plan is created, later mode changes are not re-validated.
func (p *Plan) ValidateCategories() error {
	categories := p.Categories()
	for i, phase := range p.Phases {
		for j, workout := range phase.DailyWorkouts {
			for _, e := range workout.Exercises {
				if e.Category == "" || categories.Contains(e.Category) {
					continue
				}
				return fmt.Errorf(
					"%w: phase %d workout %d: category [%s] not allowed in %s mode",
					ErrInvalidPlan, i, j, e.Category, categories.Mode(),
				)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p Plan) Clone() Plan {
	clone := p
	clone.Phases = make([]Phase, len(p.Phases))
	for i, phase := range p.Phases {
		clone.Phases[i] = Phase{
			Name:          phase.Name,
			DailyWorkouts: make([]DailyWorkout, len(phase.DailyWorkouts)),
		}
		for j, workout := range phase.DailyWorkouts {
			workout.Exercises = slices.Clone(workout.Exercises)
			clone.Phases[i].DailyWorkouts[j] = workout
		}
	}
	return clone
}

// ToggleWorkout flips the completion flag of every workout on date within the given phase.
func (p *Plan) ToggleWorkout(phaseIndex int, date string) error {
	if phaseIndex < 0 || phaseIndex >= len(p.Phases) {
		return fmt.Errorf("%w: phase index %d out of range", ErrWorkoutNotFound, phaseIndex)
	}

	toggled := 0
	workouts := p.Phases[phaseIndex].DailyWorkouts
	for i := range workouts {
		if workouts[i].Date == date {
			workouts[i].IsCompleted = !workouts[i].IsCompleted
			toggled++
		}
	}
	if toggled == 0 {
		return fmt.Errorf("%w: no workout on %s in phase %d", ErrWorkoutNotFound, date, phaseIndex)
	}
	return nil
}

// AppendPhases adds phases after the existing ones. The phases are copied.
func (p *Plan) AppendPhases(phases []Phase) {
	extra := Plan{Phases: phases}.Clone()
	p.Phases = append(p.Phases, extra.Phases...)
}

// CountActive returns how many plans are currently active.
func CountActive(plans []Plan) int {
	count := 0
	for _, p := range plans {
		if p.Status == StatusActive {
			count++
		}
	}
	return count
}
