package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/stargym/internal/training"
)

var ErrInvalidOp = errors.New("invalid staged plan operation")

// StagedPlan is an extracted plan waiting for review before it is committed.
type StagedPlan struct {
	ID        string        `json:"id"`
	Plan      training.Plan `json:"plan"`
	CreatedAt time.Time     `json:"createdAt"`
}

const (
	OpRenamePlan       = "renamePlan"
	OpSetTrainingMode  = "setTrainingMode"
	OpRenamePhase      = "renamePhase"
	OpRemovePhase      = "removePhase"
	OpRenameWorkout    = "renameWorkout"
	OpSetWorkoutDate   = "setWorkoutDate"
	OpRemoveWorkout    = "removeWorkout"
	OpReplaceExercise  = "replaceExercise"
	OpSetExerciseField = "setExerciseField"
	OpRemoveExercise   = "removeExercise"
)

// Op is a single edit of a staged plan. Indices address phases, workouts and exercises.
type Op struct {
	Op       string          `json:"op"`
	Phase    int             `json:"phase"`
	Workout  int             `json:"workout"`
	Exercise int             `json:"exercise"`
	Field    string          `json:"field,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// Apply mutates the staged plan. On error the plan is left unchanged.
func (s *StagedPlan) Apply(op Op) error {
	plan := s.Plan.Clone()
	if err := applyOp(&plan, op); err != nil {
		return err
	}
	s.Plan = plan
	return nil
}

// ApplyAll applies ops in order; it stops at the first failing op and keeps nothing.
func (s *StagedPlan) ApplyAll(ops []Op) error {
	plan := s.Plan.Clone()
	for i, op := range ops {
		if err := applyOp(&plan, op); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	s.Plan = plan
	return nil
}

func applyOp(plan *training.Plan, op Op) error {
	switch op.Op {
	case OpRenamePlan:
		name, err := stringValue(op.Value)
		if err != nil {
			return err
		}
		plan.Name = name
	case OpSetTrainingMode:
		mode, err := stringValue(op.Value)
		if err != nil {
			return err
		}
		if !training.TrainingMode(mode).Valid() {
			return fmt.Errorf("%w: unknown training mode [%s]", ErrInvalidOp, mode)
		}
		plan.TrainingMode = training.TrainingMode(mode)
	case OpRenamePhase:
		phase, err := phaseAt(plan, op.Phase)
		if err != nil {
			return err
		}
		name, err := stringValue(op.Value)
		if err != nil {
			return err
		}
		phase.Name = name
	case OpRemovePhase:
		if _, err := phaseAt(plan, op.Phase); err != nil {
			return err
		}
		plan.Phases = append(plan.Phases[:op.Phase], plan.Phases[op.Phase+1:]...)
	case OpRenameWorkout, OpSetWorkoutDate:
		workout, err := workoutAt(plan, op.Phase, op.Workout)
		if err != nil {
			return err
		}
		value, err := stringValue(op.Value)
		if err != nil {
			return err
		}
		if op.Op == OpRenameWorkout {
			workout.Name = value
			return nil
		}
		if _, err := training.ParseDate(value); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidOp, err)
		}
		workout.Date = value
	case OpRemoveWorkout:
		if _, err := workoutAt(plan, op.Phase, op.Workout); err != nil {
			return err
		}
		workouts := plan.Phases[op.Phase].DailyWorkouts
		plan.Phases[op.Phase].DailyWorkouts = append(workouts[:op.Workout], workouts[op.Workout+1:]...)
	case OpReplaceExercise:
		exercise, err := exerciseAt(plan, op.Phase, op.Workout, op.Exercise)
		if err != nil {
			return err
		}
		var replacement training.Exercise
		if err := json.Unmarshal(op.Value, &replacement); err != nil {
			return fmt.Errorf("%w: exercise value: %s", ErrInvalidOp, err)
		}
		*exercise = replacement
	case OpSetExerciseField:
		exercise, err := exerciseAt(plan, op.Phase, op.Workout, op.Exercise)
		if err != nil {
			return err
		}
		return setExerciseField(exercise, op.Field, op.Value)
	case OpRemoveExercise:
		if _, err := exerciseAt(plan, op.Phase, op.Workout, op.Exercise); err != nil {
			return err
		}
		workout := &plan.Phases[op.Phase].DailyWorkouts[op.Workout]
		workout.Exercises = append(workout.Exercises[:op.Exercise], workout.Exercises[op.Exercise+1:]...)
	default:
		return fmt.Errorf("%w: unknown op [%s]", ErrInvalidOp, op.Op)
	}
	return nil
}

func setExerciseField(exercise *training.Exercise, field string, value json.RawMessage) error {
	switch field {
	case "name", "category", "scoreType", "time":
		s, err := stringValue(value)
		if err != nil {
			return err
		}
		switch field {
		case "name":
			exercise.Name = s
		case "category":
			exercise.Category = s
		case "scoreType":
			if !training.ScoreType(s).Valid() {
				return fmt.Errorf("%w: unknown score type [%s]", ErrInvalidOp, s)
			}
			exercise.ScoreType = training.ScoreType(s)
		case "time":
			exercise.Time = s
		}
	case "sets", "reps", "weight", "distance":
		n, err := numberValue(value)
		if err != nil {
			return err
		}
		switch field {
		case "sets":
			exercise.Sets = n
		case "reps":
			exercise.Reps = n
		case "weight":
			exercise.Weight = n
		case "distance":
			exercise.Distance = n
		}
	default:
		return fmt.Errorf("%w: unknown exercise field [%s]", ErrInvalidOp, field)
	}
	return nil
}

func phaseAt(plan *training.Plan, phase int) (*training.Phase, error) {
	if phase < 0 || phase >= len(plan.Phases) {
		return nil, fmt.Errorf("%w: phase index %d out of range", ErrInvalidOp, phase)
	}
	return &plan.Phases[phase], nil
}

func workoutAt(plan *training.Plan, phase, workout int) (*training.DailyWorkout, error) {
	p, err := phaseAt(plan, phase)
	if err != nil {
		return nil, err
	}
	if workout < 0 || workout >= len(p.DailyWorkouts) {
		return nil, fmt.Errorf("%w: workout index %d out of range", ErrInvalidOp, workout)
	}
	return &p.DailyWorkouts[workout], nil
}

func exerciseAt(plan *training.Plan, phase, workout, exercise int) (*training.Exercise, error) {
	w, err := workoutAt(plan, phase, workout)
	if err != nil {
		return nil, err
	}
	if exercise < 0 || exercise >= len(w.Exercises) {
		return nil, fmt.Errorf("%w: exercise index %d out of range", ErrInvalidOp, exercise)
	}
	return &w.Exercises[exercise], nil
}

func stringValue(value json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("%w: expected a string value", ErrInvalidOp)
	}
	return s, nil
}

// numberValue accepts 12, 12.5 and "12.5"; an empty string clears the field.
func numberValue(value json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(value, &n); err == nil {
		return n, nil
	}
	s, err := stringValue(value)
	if err != nil {
		return 0, fmt.Errorf("%w: expected a numeric value", ErrInvalidOp)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: [%s] is not a number", ErrInvalidOp, s)
	}
	return n, nil
}

// IntoNewPlan turns the staged plan into a new main plan with status todo.
func (s *StagedPlan) IntoNewPlan() training.Plan {
	plan := s.Plan.Clone()
	plan.ID = ""
	plan.Version = 0
	plan.Type = training.PlanMain
	plan.Status = training.StatusTodo
	plan.CreatedAt = time.Time{}
	plan.ApplyDefaults()
	return plan
}

// IntoExisting returns a copy of target with the staged phases appended.
func (s *StagedPlan) IntoExisting(target training.Plan) training.Plan {
	merged := target.Clone()
	merged.AppendPhases(s.Plan.Phases)
	return merged
}
