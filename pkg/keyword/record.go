package keyword

import (
	"math"
	"strings"
)

// Defaults substituted when a numeric field is blank or cannot be parsed.
// An unknown difficulty is treated as maximally difficult so it is never
// rewarded by the difficulty band of the filter.
const (
	DefaultVolume     = 0.0
	DefaultDifficulty = 100.0
	DefaultCPC        = 0.0
)

// Row is one raw line of a keyword research export, before normalization.
type Row struct {
	Keyword    string
	Volume     string
	Difficulty string
	CPC        string
}

// Dataset is the rows of one uploaded export, labelled with its source.
type Dataset struct {
	Source string
	Rows   []Row
}

// Record is a normalized keyword row.
//
// Row is the index inside its dataset and Seq the index across every
// dataset of a run in dataset order. Seq is the tie-breaker for every
// ranking so results are reproducible.
type Record struct {
	Keyword    string  `json:"keyword"`
	Volume     float64 `json:"volume"`
	Difficulty float64 `json:"difficulty"`
	CPC        float64 `json:"cpc"`
	Source     string  `json:"source"`
	Row        int     `json:"row"`
	Seq        int     `json:"seq"`
	Score      float64 `json:"score"`
}

// HasDifficulty reports whether the difficulty is defined. Normalized
// records always have one; the filter still honours undefined values.
func (r Record) HasDifficulty() bool {
	return !math.IsNaN(r.Difficulty)
}

// Unpriced reports whether the record has neither volume nor cpc after
// normalization.
func (r Record) Unpriced() bool {
	return r.Volume == 0 && r.CPC == 0 && math.IsInf(r.Score, -1)
}

// Normalize converts a raw row into a record using the documented defaults.
func Normalize(row Row, source string, index, seq int) Record {
	return Record{
		Keyword:    strings.TrimSpace(row.Keyword),
		Volume:     ParseVolume(row.Volume),
		Difficulty: ParseDifficulty(row.Difficulty),
		CPC:        ParseCPC(row.CPC),
		Source:     source,
		Row:        index,
		Seq:        seq,
	}
}
