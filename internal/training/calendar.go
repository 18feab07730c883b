package training

import (
	"slices"
	"strings"
)

// ScheduledWorkout is a daily workout together with where it lives.
type ScheduledWorkout struct {
	DailyWorkout
	PlanID       string       `json:"planId"`
	PlanName     string       `json:"planName"`
	PlanStatus   PlanStatus   `json:"planStatus"`
	TrainingMode TrainingMode `json:"trainingMode"`
	PhaseIndex   int          `json:"phaseIndex"`
	PhaseName    string       `json:"phaseName"`
}

// WorkoutsByDate groups every dated workout of every plan by its date.
// Within a date, workouts keep plan then phase order.
func WorkoutsByDate(plans []Plan) map[string][]ScheduledWorkout {
	byDate := map[string][]ScheduledWorkout{}
	forEachScheduled(plans, func(sw ScheduledWorkout) {
		if sw.Date == "" {
			return
		}
		byDate[sw.Date] = append(byDate[sw.Date], sw)
	})
	return byDate
}

// WorkoutsInMonth is WorkoutsByDate limited to dates starting with month (YYYY-MM).
func WorkoutsInMonth(plans []Plan, month string) map[string][]ScheduledWorkout {
	byDate := WorkoutsByDate(plans)
	for date := range byDate {
		if !strings.HasPrefix(date, month+"-") {
			delete(byDate, date)
		}
	}
	return byDate
}

// TodaysWorkouts returns the workouts scheduled on today from active plans only.
func TodaysWorkouts(plans []Plan, today string) []ScheduledWorkout {
	workouts := []ScheduledWorkout{}
	forEachScheduled(plans, func(sw ScheduledWorkout) {
		if sw.PlanStatus == StatusActive && sw.Date == today {
			workouts = append(workouts, sw)
		}
	})
	return workouts
}

// SortedDates returns the keys of a WorkoutsByDate result in ascending order.
func SortedDates(byDate map[string][]ScheduledWorkout) []string {
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	return dates
}

func forEachScheduled(plans []Plan, fn func(ScheduledWorkout)) {
	for _, plan := range plans {
		for phaseIndex, phase := range plan.Phases {
			for _, workout := range phase.DailyWorkouts {
				fn(ScheduledWorkout{
					DailyWorkout: workout,
					PlanID:       plan.ID,
					PlanName:     plan.Name,
					PlanStatus:   plan.Status,
					TrainingMode: plan.TrainingMode,
					PhaseIndex:   phaseIndex,
					PhaseName:    phase.Name,
				})
			}
		}
	}
}
