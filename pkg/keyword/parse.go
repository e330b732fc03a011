package keyword

import (
	"math"
	"strconv"
	"strings"
)

// ParseVolume parses a search volume. Blank, unparseable, non-finite and
// negative values yield DefaultVolume.
func ParseVolume(raw string) float64 {
	return parseNonNegative(raw, DefaultVolume)
}

// ParseDifficulty parses a keyword difficulty. Blank, unparseable and
// non-finite values yield DefaultDifficulty. Out of range values are kept.
func ParseDifficulty(raw string) float64 {
	v, ok := parseFinite(raw)
	if !ok {
		return DefaultDifficulty
	}
	return v
}

// ParseCPC parses a cost per click. Blank, unparseable, non-finite and
// negative values yield DefaultCPC.
func ParseCPC(raw string) float64 {
	return parseNonNegative(raw, DefaultCPC)
}

func parseNonNegative(raw string, def float64) float64 {
	v, ok := parseFinite(raw)
	if !ok || v < 0 {
		return def
	}
	return v
}

func parseFinite(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
