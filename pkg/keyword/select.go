package keyword

import "sort"

// Selection is the outcome of quota selection, backfill and truncation.
type Selection struct {
	Records []Record
	// QuotaPicks and BackfillPicks count the union before truncation.
	QuotaPicks    int
	BackfillPicks int
	// Remaining is the capacity left after the quota fold; negative when the
	// last group overflowed.
	Remaining int
}

// Keywords returns the selected keywords, best first.
func (s Selection) Keywords() []string {
	out := make([]string, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Keyword
	}
	return out
}

type sourceGroup struct {
	source  string
	records []Record
}

// quotaState is the accumulator threaded through the quota fold.
type quotaState struct {
	remaining int
	picked    []Record
	shortfall bool
}

func (q quotaState) full() bool {
	return q.remaining <= 0
}

func (q quotaState) wantsBackfill(mode BackfillMode) bool {
	if q.full() {
		return false
	}
	return mode == BackfillAlways || q.shortfall
}

// Select applies the per-source quota, the global backfill and the final
// truncation to scored records. Records must carry unique Seq values.
// Unpriced records are only eligible when no record has a finite, positive
// score.
func Select(records []Record, quota, capacity int, mode BackfillMode) Selection {
	records = dropUnpriced(records)
	if len(records) == 0 {
		return Selection{Records: []Record{}, Remaining: capacity}
	}

	state := quotaState{remaining: capacity}
	for _, g := range groupBySource(records) {
		if state.full() {
			break
		}
		top := topN(g.records, quota)
		state.picked = append(state.picked, top...)
		state.remaining -= len(top)
		if len(top) < quota {
			state.shortfall = true
		}
	}

	sel := Selection{QuotaPicks: len(state.picked), Remaining: state.remaining}
	union := state.picked
	if state.wantsBackfill(mode) {
		extra := topN(excluding(records, state.picked), state.remaining)
		sel.BackfillPicks = len(extra)
		union = append(union, extra...)
	}

	sel.Records = topN(union, capacity)
	return sel
}

// groupBySource splits records by source in first-seen order.
func groupBySource(records []Record) []sourceGroup {
	ordered := make([]Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	index := make(map[string]int)
	var groups []sourceGroup
	for _, r := range ordered {
		i, ok := index[r.Source]
		if !ok {
			i = len(groups)
			index[r.Source] = i
			groups = append(groups, sourceGroup{source: r.Source})
		}
		groups[i].records = append(groups[i].records, r)
	}
	return groups
}

// topN returns up to n best records without modifying the input.
func topN(records []Record, n int) []Record {
	if n <= 0 {
		return []Record{}
	}
	ranked := make([]Record, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool { return ranksBefore(ranked[i], ranked[j]) })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func excluding(records, picked []Record) []Record {
	taken := make(map[int]bool, len(picked))
	for _, r := range picked {
		taken[r.Seq] = true
	}
	rest := make([]Record, 0, len(records)-len(picked))
	for _, r := range records {
		if !taken[r.Seq] {
			rest = append(rest, r)
		}
	}
	return rest
}
