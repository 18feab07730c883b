package training

import (
	"fmt"
	"strconv"
)

type ScoreType string

const (
	ScoreWeightReps ScoreType = "Weight & Reps"
	ScoreRepsOnly   ScoreType = "Reps Only"
	ScoreTime       ScoreType = "Time"
	ScoreDistance   ScoreType = "Distance"
)

var ScoreTypes = []ScoreType{ScoreWeightReps, ScoreRepsOnly, ScoreTime, ScoreDistance}

func (s ScoreType) Valid() bool {
	switch s {
	case ScoreWeightReps, ScoreRepsOnly, ScoreTime, ScoreDistance:
		return true
	}
	return false
}

// Exercise is one prescribed movement. Which metrics are meaningful depends on ScoreType,
// but all of them are always carried.
type Exercise struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	ScoreType ScoreType `json:"scoreType"`
	Sets      float64   `json:"sets"`
	Reps      float64   `json:"reps"`
	Weight    float64   `json:"weight"`
	// Time is "mm:ss"
	Time string `json:"time"`
	// Distance is in meters
	Distance float64 `json:"distance"`
}

// Volume is sets*reps*weight regardless of the score type.
func (e Exercise) Volume() float64 {
	return e.Sets * e.Reps * e.Weight
}

// String renders the exercise the way it is listed on workout cards.
func (e Exercise) String() string {
	var details string
	switch e.ScoreType {
	case ScoreTime:
		details = "时间: " + e.Time
	case ScoreDistance:
		details = fmt.Sprintf("距离: %s 米", formatNumber(e.Distance))
	case ScoreRepsOnly:
		details = fmt.Sprintf("%s组 x %s次", formatNumber(e.Sets), formatNumber(e.Reps))
	default:
		details = fmt.Sprintf("%s组 x %s次 @ %skg", formatNumber(e.Sets), formatNumber(e.Reps), formatNumber(e.Weight))
	}
	return e.Name + ": " + details
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
