package keyword

import "math"

// Score rates a keyword as ln(volume) / cpc.
//
// The degenerate cases are ranked explicitly instead of relying on IEEE
// results: a zero volume always ranks lowest (-Inf), whatever the cpc, and a
// zero cpc with positive volume ranks highest (+Inf). NaN is never returned.
func Score(volume, cpc float64) float64 {
	switch {
	case volume <= 0:
		return math.Inf(-1)
	case cpc <= 0:
		return math.Inf(1)
	}
	return math.Log(volume) / cpc
}

// ranksBefore orders records by descending score, then by insertion order.
func ranksBefore(a, b Record) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Seq < b.Seq
}

// dropUnpriced removes unpriced records when any record has a finite,
// positive score. Otherwise records is returned unchanged and unpriced
// records keep their lowest rank.
func dropUnpriced(records []Record) []Record {
	positive := false
	for _, r := range records {
		if r.Score > 0 && !math.IsInf(r.Score, 1) {
			positive = true
			break
		}
	}
	if !positive {
		return records
	}

	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.Unpriced() {
			kept = append(kept, r)
		}
	}
	return kept
}
