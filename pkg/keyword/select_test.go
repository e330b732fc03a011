package keyword

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scored builds n records for source with strictly decreasing scores
// starting at top, with Seq starting at seq.
func scored(source string, n int, top float64, seq int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{
			Keyword: fmt.Sprintf("%s-%d", source, i),
			Source:  source,
			Row:     i,
			Seq:     seq + i,
			Score:   top - float64(i),
		}
	}
	return out
}

func countBySource(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Source]++
	}
	return counts
}

func TestSelectEmpty(t *testing.T) {
	sel := Select(nil, 15, 150, BackfillOnShortfall)
	assert.Empty(t, sel.Records)
	assert.Empty(t, sel.Keywords())
	assert.Equal(t, 150, sel.Remaining)
}

func TestSelectQuotaStopsAtCapacity(t *testing.T) {
	var records []Record
	for s := 0; s < 11; s++ {
		records = append(records, scored(SourceLabel(s), 20, 1000-float64(s), s*20)...)
	}

	sel := Select(records, 15, 150, BackfillOnShortfall)

	assert.Equal(t, 150, sel.QuotaPicks)
	assert.Equal(t, 0, sel.BackfillPicks)
	assert.Equal(t, 0, sel.Remaining)
	require.Len(t, sel.Records, 150)
	counts := countBySource(sel.Records)
	assert.NotContains(t, counts, SourceLabel(10), "eleventh source is never reached")
	for s := 0; s < 10; s++ {
		assert.Equal(t, 15, counts[SourceLabel(s)])
	}
}

func TestSelectSoftCapTakesOverflowingGroupWhole(t *testing.T) {
	a := scored("a", 20, 100, 0)
	b := scored("b", 20, 200, 20)

	sel := Select(append(a, b...), 15, 20, BackfillOnShortfall)

	assert.Equal(t, 30, sel.QuotaPicks)
	assert.Equal(t, -10, sel.Remaining)
	assert.Equal(t, 0, sel.BackfillPicks)
	require.Len(t, sel.Records, 20)
	// truncation re-ranks globally: b's quota picks outrank all of a's
	counts := countBySource(sel.Records)
	assert.Equal(t, 15, counts["b"])
	assert.Equal(t, 5, counts["a"])
	assert.Equal(t, "b-0", sel.Records[0].Keyword)
}

func TestSelectBackfillScenarioB(t *testing.T) {
	small := scored("csv_file_1", 5, -500, 0)
	large := scored("csv_file_2", 200, 1000, 5)

	sel := Select(append(small, large...), 15, 150, BackfillOnShortfall)

	assert.Equal(t, 20, sel.QuotaPicks)
	assert.Equal(t, 130, sel.BackfillPicks)
	require.Len(t, sel.Records, 150)

	counts := countBySource(sel.Records)
	assert.Equal(t, 5, counts["csv_file_1"])
	assert.Equal(t, 145, counts["csv_file_2"])

	// the large source contributes its own best 145
	for i := 0; i < 145; i++ {
		assert.Equal(t, fmt.Sprintf("csv_file_2-%d", i), sel.Records[i].Keyword)
	}
	// the small source ranks last but is kept by its quota
	assert.Equal(t, "csv_file_1-0", sel.Records[145].Keyword)
}

func TestSelectBackfillNeverDuplicates(t *testing.T) {
	records := append(scored("a", 3, 10, 0), scored("b", 40, 50, 3)...)

	sel := Select(records, 15, 150, BackfillOnShortfall)

	seen := make(map[int]bool)
	for _, r := range sel.Records {
		assert.False(t, seen[r.Seq], "record %d selected twice", r.Seq)
		seen[r.Seq] = true
	}
	assert.Len(t, sel.Records, 43)
}

func TestSelectTiesKeepRowOrder(t *testing.T) {
	records := []Record{
		{Keyword: "first", Source: "a", Seq: 0, Score: 1},
		{Keyword: "second", Source: "a", Seq: 1, Score: 1},
		{Keyword: "third", Source: "a", Seq: 2, Score: 1},
	}

	sel := Select(records, 2, 2, BackfillOnShortfall)

	assert.Equal(t, []string{"first", "second"}, sel.Keywords())
}

func TestSelectGroupsInFirstSeenOrder(t *testing.T) {
	records := []Record{
		{Keyword: "z1", Source: "z", Seq: 0, Score: 1},
		{Keyword: "a1", Source: "a", Seq: 1, Score: 5},
		{Keyword: "z2", Source: "z", Seq: 2, Score: 2},
	}

	groups := groupBySource(records)

	require.Len(t, groups, 2)
	assert.Equal(t, "z", groups[0].source)
	assert.Equal(t, "a", groups[1].source)
	assert.Len(t, groups[0].records, 2)
}

func TestSelectBackfillModes(t *testing.T) {
	records := append(scored("a", 20, 100, 0), scored("b", 20, 50, 20)...)

	sel := Select(records, 15, 150, BackfillOnShortfall)
	assert.Equal(t, 30, sel.QuotaPicks)
	assert.Equal(t, 0, sel.BackfillPicks, "every source filled its quota")
	assert.Len(t, sel.Records, 30)
	assert.Equal(t, 120, sel.Remaining)

	sel = Select(records, 15, 150, BackfillAlways)
	assert.Equal(t, 10, sel.BackfillPicks)
	assert.Len(t, sel.Records, 40)
}

func TestSelectUnpricedRecords(t *testing.T) {
	unpriced := Record{Keyword: "unpriced", Source: "a", Seq: 0, Score: math.Inf(-1)}

	t.Run("dropped next to a finite positive score", func(t *testing.T) {
		priced := Record{Keyword: "priced", Source: "a", Seq: 1, Volume: 100, CPC: 1, Score: math.Log(100)}

		sel := Select([]Record{unpriced, priced}, 15, 150, BackfillOnShortfall)

		assert.Equal(t, []string{"priced"}, sel.Keywords())
	})

	t.Run("kept when only infinite or non-positive scores exist", func(t *testing.T) {
		free := Record{Keyword: "free", Source: "a", Seq: 1, Volume: 40, Score: math.Inf(1)}
		flat := Record{Keyword: "flat", Source: "b", Seq: 2, Volume: 1, CPC: 0.5, Score: 0}

		sel := Select([]Record{unpriced, free, flat}, 15, 150, BackfillOnShortfall)

		assert.Equal(t, []string{"free", "flat", "unpriced"}, sel.Keywords())
	})

	t.Run("zero volume with a cpc is not unpriced", func(t *testing.T) {
		noVolume := Record{Keyword: "no volume", Source: "a", Seq: 0, CPC: 0.4, Score: math.Inf(-1)}
		priced := Record{Keyword: "priced", Source: "a", Seq: 1, Volume: 100, CPC: 1, Score: math.Log(100)}

		sel := Select([]Record{noVolume, priced}, 15, 150, BackfillOnShortfall)

		assert.Equal(t, []string{"priced", "no volume"}, sel.Keywords())
	})
}
