package extraction

import (
	"github.com/2beens/stargym/internal/gemini"
	"github.com/2beens/stargym/internal/training"
)

func scoreTypeValues() []string {
	values := make([]string, 0, len(training.ScoreTypes))
	for _, st := range training.ScoreTypes {
		values = append(values, string(st))
	}
	return values
}

func exerciseProperties() map[string]*gemini.Schema {
	return map[string]*gemini.Schema{
		"name":      {Type: gemini.TypeString, Description: "动作名称"},
		"scoreType": {Type: gemini.TypeString, Enum: scoreTypeValues(), Description: "计分方式"},
		"sets":      {Type: gemini.TypeNumber, Description: "组数 (if applicable)"},
		"reps":      {Type: gemini.TypeNumber, Description: "次数 (if applicable)"},
		"weight":    {Type: gemini.TypeNumber, Description: "重量(kg) (if applicable)"},
		"time":      {Type: gemini.TypeString, Description: "时间, 格式 'mm:ss' (if applicable)"},
		"distance":  {Type: gemini.TypeNumber, Description: "距离(米) (if applicable)"},
	}
}

var exerciseRequired = []string{"name", "scoreType", "category"}

// WorkoutSchema describes an array of exercises whose categories come from the given vocabulary.
func WorkoutSchema(categories training.CategorySet) *gemini.Schema {
	properties := exerciseProperties()

	description := "训练部位"
	if categories.Mode() == training.ModeCrossFit {
		description = "CrossFit 分类"
	}
	properties["category"] = &gemini.Schema{
		Type:        gemini.TypeString,
		Description: description,
		Enum:        categories.List(),
	}

	return &gemini.Schema{
		Type: gemini.TypeArray,
		Items: &gemini.Schema{
			Type:       gemini.TypeObject,
			Properties: properties,
			Required:   exerciseRequired,
		},
	}
}

// PlanSchema describes a whole plan. The training mode is inferred together with the
// exercises, so categories are not restricted to a single vocabulary here.
func PlanSchema() *gemini.Schema {
	exercise := exerciseProperties()
	exercise["category"] = &gemini.Schema{Type: gemini.TypeString, Description: "分类"}

	return &gemini.Schema{
		Type: gemini.TypeObject,
		Properties: map[string]*gemini.Schema{
			"name": {Type: gemini.TypeString},
			"trainingMode": {
				Type: gemini.TypeString,
				Enum: []string{string(training.ModeGeneral), string(training.ModeCrossFit)},
			},
			"phases": {
				Type: gemini.TypeArray,
				Items: &gemini.Schema{
					Type: gemini.TypeObject,
					Properties: map[string]*gemini.Schema{
						"name": {Type: gemini.TypeString},
						"dailyWorkouts": {
							Type: gemini.TypeArray,
							Items: &gemini.Schema{
								Type: gemini.TypeObject,
								Properties: map[string]*gemini.Schema{
									"date":        {Type: gemini.TypeString, Description: "YYYY-MM-DD"},
									"name":        {Type: gemini.TypeString},
									"isCompleted": {Type: gemini.TypeBoolean},
									"exercises": {
										Type: gemini.TypeArray,
										Items: &gemini.Schema{
											Type:       gemini.TypeObject,
											Properties: exercise,
											Required:   exerciseRequired,
										},
									},
								},
								Required: []string{"date", "name", "exercises"},
							},
						},
					},
					Required: []string{"name", "dailyWorkouts"},
				},
			},
		},
		Required: []string{"name", "trainingMode", "phases"},
	}
}
