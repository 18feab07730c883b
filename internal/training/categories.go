package training

import "slices"

type TrainingMode string

const (
	ModeGeneral  TrainingMode = "General"
	ModeCrossFit TrainingMode = "CrossFit"
)

func (m TrainingMode) Valid() bool {
	return m == ModeGeneral || m == ModeCrossFit
}

// UncategorizedLabel is used for exercises without a category in statistics.
const UncategorizedLabel = "其他"

var (
	generalCategories  = []string{"胸", "背", "腿", "肩", "手臂", "核心", UncategorizedLabel}
	crossFitCategories = []string{"Weightlifting", "Gymnastics", "Metcon"}
)

// CategorySet is the exercise category vocabulary of one training mode.
// It is resolved once per plan with CategoriesFor.
type CategorySet struct {
	mode       TrainingMode
	categories []string
}

// CategoriesFor returns the vocabulary for mode. Unknown modes resolve to General.
func CategoriesFor(mode TrainingMode) CategorySet {
	if mode == ModeCrossFit {
		return CategorySet{mode: ModeCrossFit, categories: crossFitCategories}
	}
	return CategorySet{mode: ModeGeneral, categories: generalCategories}
}

func (c CategorySet) Mode() TrainingMode {
	return c.mode
}

// List returns a copy of the vocabulary in its canonical order.
func (c CategorySet) List() []string {
	return slices.Clone(c.categories)
}

// Prompted is the vocabulary offered to the model: General leaves out the catch-all label.
func (c CategorySet) Prompted() []string {
	return slices.DeleteFunc(c.List(), func(cat string) bool {
		return cat == UncategorizedLabel
	})
}

func (c CategorySet) Default() string {
	if len(c.categories) == 0 {
		return generalCategories[0]
	}
	return c.categories[0]
}

func (c CategorySet) Contains(category string) bool {
	return slices.Contains(c.categories, category)
}
