package keyword

// Filter removes records that should not be scored.
type Filter interface {
	Apply(records []Record) []Record
	Name() string
}

// ValueFilter keeps a record when any of its commercial signals is strong
// enough: volume, cpc, a moderate difficulty, or an undefined difficulty.
type ValueFilter struct {
	minVolume     float64
	minCPC        float64
	difficultyMin float64
	difficultyMax float64
	name          string
}

func NewValueFilter(name string, policy Policy) *ValueFilter {
	return &ValueFilter{
		name:          name,
		minVolume:     policy.MinVolume,
		minCPC:        policy.MinCPC,
		difficultyMin: policy.DifficultyMin,
		difficultyMax: policy.DifficultyMax,
	}
}

// Keep reports whether a single record survives the filter.
func (f *ValueFilter) Keep(r Record) bool {
	if r.Volume >= f.minVolume || r.CPC >= f.minCPC {
		return true
	}
	if !r.HasDifficulty() {
		return true
	}
	return r.Difficulty >= f.difficultyMin && r.Difficulty <= f.difficultyMax
}

func (f *ValueFilter) Apply(records []Record) []Record {
	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func (f *ValueFilter) Name() string {
	return f.name
}

// BlankKeywordFilter drops rows whose keyword is empty after trimming.
type BlankKeywordFilter struct {
	name string
}

func NewBlankKeywordFilter(name string) *BlankKeywordFilter {
	return &BlankKeywordFilter{name: name}
}

func (f *BlankKeywordFilter) Apply(records []Record) []Record {
	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Keyword != "" {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func (f *BlankKeywordFilter) Name() string {
	return f.name
}
