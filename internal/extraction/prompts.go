package extraction

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/stargym/internal/training"
)

// Goals offered for workout suggestions.
var Goals = []string{"增肌", "减脂", "提升耐力", "全身力量"}

func quoted(values []string) string {
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = "'" + v + "'"
	}
	return "[" + strings.Join(q, ", ") + "]"
}

func workoutImagePrompt(categories training.CategorySet) string {
	return fmt.Sprintf(
		"Analyze the provided image of a workout plan. Extract all exercises. "+
			"For each, identify its name and all relevant metrics (sets, reps, weight, time, distance). "+
			"Based on the metrics, determine the most appropriate scoreType from this list: %s. "+
			"The training mode is %s, classify each exercise into one of these categories: %s. "+
			"Return a JSON array of objects.",
		quoted(scoreTypeValues()), categories.Mode(), quoted(categories.List()),
	)
}

func suggestionPrompt(goal string, categories training.CategorySet) string {
	return fmt.Sprintf(
		"You are an expert fitness coach. A user wants a workout for the goal '%s'. "+
			"The training mode is '%s'. Generate 5-6 suitable exercises. "+
			"For each exercise, provide: name, scoreType (from %s), and all relevant metrics (sets, reps, weight, time, distance). "+
			"Also provide a 'category' from %s. Return a JSON array.",
		goal, categories.Mode(), quoted(scoreTypeValues()), quoted(categories.List()),
	)
}

func planImagePrompt(firstDay time.Time) string {
	general := training.CategoriesFor(training.ModeGeneral)
	crossFit := training.CategoriesFor(training.ModeCrossFit)
	return fmt.Sprintf(`Analyze the image of a weekly workout plan (which could be a table or handwritten notes). Extract the following structure:
1. A main 'name' for the entire weekly plan.
2. A 'trainingMode', which should be either 'CrossFit' or 'General'. Infer this from the exercise names. Default to 'General' if unsure.
3. An array of 'phases'. Each phase should have a 'name' (e.g., "Week 1", "Activation Phase") and an array of 'dailyWorkouts'.
4. For each daily workout:
    a. Extract a 'name' for the day (e.g., "Day 1: Legs", "Monday Squats").
    b. Extract an array of 'exercises'. For each exercise:
        i. 'name' (e.g., "Back Squat").
        ii. 'scoreType': Infer the most logical type from %s.
        iii. 'category': If trainingMode is 'CrossFit', classify into %s. Otherwise, classify by body part %s.
        iv. All relevant metrics: 'sets', 'reps', 'weight', 'time' (as "mm:ss"), 'distance' (in meters). Only include metrics relevant to the scoreType.
Return a single JSON object. Assign progressive dates (YYYY-MM-DD) to each daily workout, starting from %s.`,
		quoted(scoreTypeValues()), quoted(crossFit.Prompted()), quoted(general.Prompted()), training.FormatDate(firstDay),
	)
}

func analysisPrompt(statsJson []byte) string {
	return fmt.Sprintf(
		"You are a data-driven fitness analyst. Here is a summary of a user's recent workout data: %s. "+
			"Analyze this data and provide a concise summary of their performance in Chinese. "+
			"Then, offer 3 actionable tips for improvement. For example, if you see they are neglecting a body part, suggest exercises for it. "+
			"If their volume is stagnant, suggest progressive overload techniques. Keep the tone encouraging and positive. "+
			"Format the output with a title 'AI表现分析', a '总结' section, and a '建议' section. Use markdown for formatting.",
		statsJson,
	)
}

func recordsAdvicePrompt(recordsJson []byte) string {
	return fmt.Sprintf(
		"You are an expert CrossFit L2 coach. A user has provided their personal records (PRs). "+
			"Their goal is to become a more well-rounded athlete. Analyze the following PRs: %s. "+
			"Based on these records, identify potential strengths, weaknesses, and imbalances. "+
			"Provide a concise analysis and 3-5 actionable training recommendations in Chinese. "+
			"Keep the tone encouraging and professional. "+
			"Format the response in Markdown with a title 'AI 训练指导', a '强项与弱项分析' section, and a '训练建议' section.",
		recordsJson,
	)
}

// nextMonday is the first Monday strictly after the date of now.
func nextMonday(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return day.AddDate(0, 0, days)
}
