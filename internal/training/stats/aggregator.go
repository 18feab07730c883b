package stats

import (
	"slices"

	"github.com/2beens/stargym/internal/training"
)

// maxWeeks is how many of the most recent weeks end up in BarData.
const maxWeeks = 8

type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type WeekVolume struct {
	// Week is the Sunday starting the week, YYYY-MM-DD.
	Week   string  `json:"week"`
	Volume float64 `json:"volume"`
}

type Summary struct {
	TotalVolume       float64         `json:"totalVolume"`
	CompletedWorkouts int             `json:"completedWorkouts"`
	PieData           []CategoryCount `json:"pieData"`
	BarData           []WeekVolume    `json:"barData"`
}

// Aggregate folds all plans into the summary statistics.
// It is pure: the same plans always give the same summary.
func Aggregate(plans []training.Plan) Summary {
	summary := Summary{
		PieData: []CategoryCount{},
		BarData: []WeekVolume{},
	}

	categoryIndex := map[string]int{}
	weeklyVolume := map[string]float64{}

	for _, plan := range plans {
		for _, phase := range plan.Phases {
			for _, workout := range phase.DailyWorkouts {
				if workout.IsCompleted {
					summary.CompletedWorkouts++
				}

				workoutVolume := 0.0
				for _, e := range workout.Exercises {
					workoutVolume += e.Volume()

					category := e.Category
					if category == "" {
						category = training.UncategorizedLabel
					}
					i, ok := categoryIndex[category]
					if !ok {
						i = len(summary.PieData)
						categoryIndex[category] = i
						summary.PieData = append(summary.PieData, CategoryCount{Name: category})
					}
					summary.PieData[i].Value++
				}
				summary.TotalVolume += workoutVolume

				// undated workouts still count towards the totals above
				date, err := training.ParseDate(workout.Date)
				if err != nil {
					continue
				}
				week := training.FormatDate(training.WeekStart(date))
				weeklyVolume[week] += workoutVolume
			}
		}
	}

	weeks := make([]string, 0, len(weeklyVolume))
	for week := range weeklyVolume {
		weeks = append(weeks, week)
	}
	slices.Sort(weeks)
	if len(weeks) > maxWeeks {
		weeks = weeks[len(weeks)-maxWeeks:]
	}
	for _, week := range weeks {
		summary.BarData = append(summary.BarData, WeekVolume{Week: week, Volume: weeklyVolume[week]})
	}

	return summary
}
