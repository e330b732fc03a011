package keyword

import "fmt"

// Policy holds the tunable constants of a scoring run.
type Policy struct {
	// SourceQuota is how many records each source contributes before backfill.
	SourceQuota int `mapstructure:"source_quota" json:"source_quota"`
	// Capacity bounds the final selection.
	Capacity int `mapstructure:"capacity" json:"capacity"`

	MinVolume     float64 `mapstructure:"min_volume" json:"min_volume"`
	MinCPC        float64 `mapstructure:"min_cpc" json:"min_cpc"`
	DifficultyMin float64 `mapstructure:"difficulty_min" json:"difficulty_min"`
	DifficultyMax float64 `mapstructure:"difficulty_max" json:"difficulty_max"`

	// Backfill decides when free capacity left by the quota pass is topped up.
	Backfill BackfillMode `mapstructure:"backfill" json:"backfill"`

	// Parallelism > 1 prepares datasets concurrently. Output is identical.
	Parallelism int `mapstructure:"parallelism" json:"parallelism"`
}

// BackfillMode selects the global backfill rule.
type BackfillMode string

const (
	// BackfillOnShortfall tops up only when some source had fewer qualifying
	// records than its quota.
	BackfillOnShortfall BackfillMode = "shortfall"
	// BackfillAlways tops up whenever capacity remains after the quota pass.
	BackfillAlways BackfillMode = "always"
)

// DefaultPolicy returns the production thresholds: 15 per source, 150 total.
func DefaultPolicy() Policy {
	return Policy{
		SourceQuota:   15,
		Capacity:      150,
		MinVolume:     20,
		MinCPC:        0.35,
		DifficultyMin: 10,
		DifficultyMax: 50,
		Backfill:      BackfillOnShortfall,
		Parallelism:   1,
	}
}

// Validate rejects policies that cannot produce a meaningful selection.
func (p Policy) Validate() error {
	if p.SourceQuota <= 0 {
		return fmt.Errorf("source_quota must be positive, got %d", p.SourceQuota)
	}
	if p.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", p.Capacity)
	}
	if p.DifficultyMin > p.DifficultyMax {
		return fmt.Errorf("difficulty_min %.2f exceeds difficulty_max %.2f", p.DifficultyMin, p.DifficultyMax)
	}
	switch p.Backfill {
	case "", BackfillOnShortfall, BackfillAlways:
	default:
		return fmt.Errorf("unknown backfill mode %q", p.Backfill)
	}
	if p.Parallelism < 0 {
		return fmt.Errorf("parallelism cannot be negative")
	}
	return nil
}
