package training

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var ErrInvalidRecord = errors.New("invalid personal record")

type RecordCategory string

const (
	RecordPowerlifting RecordCategory = "力量举重"
	RecordOlympic      RecordCategory = "奥林匹克举重"
	RecordGymnastics   RecordCategory = "体操与WODs"
)

var RecordCategories = []RecordCategory{RecordPowerlifting, RecordOlympic, RecordGymnastics}

type Unit string

const (
	UnitKg     Unit = "kg"
	UnitLbs    Unit = "lbs"
	UnitReps   Unit = "reps"
	UnitSec    Unit = "sec"
	UnitMinSec Unit = "min:sec"
)

var Units = []Unit{UnitKg, UnitLbs, UnitReps, UnitSec, UnitMinSec}

// CommonMovements are the suggested movement names per record category.
var CommonMovements = map[RecordCategory][]string{
	RecordPowerlifting: {"Back Squat (后蹲)", "Front Squat (前蹲)", "Overhead Squat (过顶蹲)", "Deadlift (硬拉)", "Bench Press (卧推)"},
	RecordOlympic:      {"Snatch (抓举)", "Clean (上搏)", "Jerk (挺举)", "Clean & Jerk (挺举)"},
	RecordGymnastics:   {"Fran", "Murph", "Cindy", "Max Pull-ups (最大引体次数)", "Max Muscle-ups (最大双力臂次数)"},
}

// PersonalRecord is a best result for a movement. Value is free text so that
// times like "3:45" can be stored as entered.
type PersonalRecord struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Category RecordCategory `json:"category"`
	Value    string         `json:"value"`
	Unit     Unit           `json:"unit"`
	Date     string         `json:"date"`
}

// ApplyDefaults fills the fields a new record form starts with.
func (r *PersonalRecord) ApplyDefaults(now time.Time) {
	if r.Category == "" {
		r.Category = RecordPowerlifting
	}
	if r.Unit == "" {
		r.Unit = UnitKg
	}
	if r.Date == "" {
		r.Date = FormatDate(now.UTC())
	}
}

func (r *PersonalRecord) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if r.Value == "" {
		return fmt.Errorf("%w: value is required", ErrInvalidRecord)
	}
	return r.validateEnums()
}

// ValidatePatch checks only the fields a partial update carries.
func (r *PersonalRecord) ValidatePatch() error {
	return r.validateEnums()
}

func (r *PersonalRecord) validateEnums() error {
	if r.Category != "" && !slices.Contains(RecordCategories, r.Category) {
		return fmt.Errorf("%w: unknown category [%s]", ErrInvalidRecord, r.Category)
	}
	if r.Unit != "" && !slices.Contains(Units, r.Unit) {
		return fmt.Errorf("%w: unknown unit [%s]", ErrInvalidRecord, r.Unit)
	}
	if r.Date != "" {
		if _, err := ParseDate(r.Date); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidRecord, err)
		}
	}
	return nil
}

type RecordGroup struct {
	Category RecordCategory   `json:"category"`
	Records  []PersonalRecord `json:"records"`
}

// GroupRecords groups records by category in canonical category order.
// Records with an unknown category are appended in a trailing group each.
func GroupRecords(records []PersonalRecord) []RecordGroup {
	groups := make([]RecordGroup, 0, len(RecordCategories))
	index := map[RecordCategory]int{}
	for _, c := range RecordCategories {
		index[c] = len(groups)
		groups = append(groups, RecordGroup{Category: c, Records: []PersonalRecord{}})
	}

	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(groups)
			index[r.Category] = i
			groups = append(groups, RecordGroup{Category: r.Category, Records: []PersonalRecord{}})
		}
		groups[i].Records = append(groups[i].Records, r)
	}

	return groups
}
