package keyword

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVolume(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1200", 1200},
		{" 90 ", 90},
		{"1e3", 1000},
		{"", DefaultVolume},
		{"N/A", DefaultVolume},
		{"-5", DefaultVolume},
		{"NaN", DefaultVolume},
		{"Inf", DefaultVolume},
		{"1,200", DefaultVolume},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseVolume(tt.raw), "raw %q", tt.raw)
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"30", 30},
		{"0", 0},
		{"120", 120},
		{"", DefaultDifficulty},
		{"n/a", DefaultDifficulty},
		{"-infinity", DefaultDifficulty},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDifficulty(tt.raw), "raw %q", tt.raw)
	}
}

func TestParseCPC(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"0.45", 0.45},
		{"2", 2},
		{"", DefaultCPC},
		{"£1.20", DefaultCPC},
		{"-0.3", DefaultCPC},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCPC(tt.raw), "raw %q", tt.raw)
	}
}

func TestNormalizeScenarioC(t *testing.T) {
	r := Normalize(Row{Keyword: " blue widgets ", Volume: "N/A", Difficulty: "30", CPC: ""}, "csv_file_1", 3, 7)

	assert.Equal(t, "blue widgets", r.Keyword)
	assert.Equal(t, 0.0, r.Volume)
	assert.Equal(t, 30.0, r.Difficulty)
	assert.Equal(t, 0.0, r.CPC)
	assert.Equal(t, "csv_file_1", r.Source)
	assert.Equal(t, 3, r.Row)
	assert.Equal(t, 7, r.Seq)
	assert.True(t, r.HasDifficulty())
	assert.False(t, math.IsNaN(r.Difficulty))
}
