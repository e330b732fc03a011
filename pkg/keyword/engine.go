package keyword

import (
	"context"
	"fmt"

	"seo-content-go/pkg/logger"
	"seo-content-go/pkg/metrics"
	"seo-content-go/pkg/worker"
)

// Result is a scored selection plus the counts observed on the way.
type Result struct {
	Selection
	Loaded   int
	Retained int
	// PerSource counts selected records by source label.
	PerSource map[string]int
}

// Engine scores keyword datasets and selects the best of them.
type Engine struct {
	policy  Policy
	filters []Filter
	pool    *worker.Pool
	metrics *metrics.Metrics
	log     *logger.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithMetrics records row counts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger replaces the component logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine validates the policy and builds an engine.
func NewEngine(policy Policy, opts ...Option) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring policy: %w", err)
	}

	e := &Engine{
		policy: policy,
		filters: []Filter{
			NewBlankKeywordFilter("blank_keyword"),
			NewValueFilter("commercial_value", policy),
		},
		log: logger.Component("keyword_engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	if policy.Parallelism > 1 {
		cfg := worker.DefaultPoolConfig()
		cfg.MaxWorkers = policy.Parallelism
		e.pool = worker.NewPool(cfg)
	}
	return e, nil
}

// ScoreAndSelect runs the default engine over datasets and returns the
// selected keywords, best first.
func ScoreAndSelect(datasets []Dataset, policy Policy) ([]string, error) {
	e, err := NewEngine(policy)
	if err != nil {
		return nil, err
	}
	res, err := e.Run(datasets)
	if err != nil {
		return nil, err
	}
	return res.Keywords(), nil
}

// Run loads, normalizes, filters, scores and selects. An empty dataset list
// yields an empty result.
func (e *Engine) Run(datasets []Dataset) (*Result, error) {
	if err := validateDatasets(datasets); err != nil {
		return nil, err
	}

	res := &Result{PerSource: make(map[string]int)}
	if len(datasets) == 0 {
		res.Selection = Select(nil, e.policy.SourceQuota, e.policy.Capacity, e.policy.Backfill)
		return res, nil
	}

	offsets := make([]int, len(datasets))
	for i := 1; i < len(datasets); i++ {
		offsets[i] = offsets[i-1] + len(datasets[i-1].Rows)
	}
	res.Loaded = offsets[len(offsets)-1] + len(datasets[len(datasets)-1].Rows)

	prepared, err := e.prepareAll(datasets, offsets)
	if err != nil {
		return nil, err
	}
	var pool []Record
	for _, records := range prepared {
		pool = append(pool, records...)
	}
	res.Retained = len(pool)

	res.Selection = Select(pool, e.policy.SourceQuota, e.policy.Capacity, e.policy.Backfill)
	for _, r := range res.Records {
		res.PerSource[r.Source]++
	}

	e.metrics.ObserveKeywords(res.Loaded, res.Retained, len(res.Records))
	e.log.WithFields(map[string]interface{}{
		"sources":        len(datasets),
		"loaded":         res.Loaded,
		"retained":       res.Retained,
		"quota_picks":    res.QuotaPicks,
		"backfill_picks": res.BackfillPicks,
		"selected":       len(res.Records),
	}).Info("Keyword selection completed")

	return res, nil
}

func (e *Engine) prepareAll(datasets []Dataset, offsets []int) ([][]Record, error) {
	prepared := make([][]Record, len(datasets))
	if e.pool == nil || len(datasets) == 1 {
		for i, ds := range datasets {
			prepared[i] = e.prepare(ds, offsets[i])
		}
		return prepared, nil
	}

	tasks := make([]worker.Task, len(datasets))
	for i := range datasets {
		i := i
		tasks[i] = worker.Task{
			ID: datasets[i].Source,
			Fn: func(ctx context.Context) error {
				prepared[i] = e.prepare(datasets[i], offsets[i])
				return nil
			},
		}
	}
	if err := worker.FirstError(e.pool.Run(context.Background(), tasks)); err != nil {
		return nil, fmt.Errorf("preparing keyword datasets: %w", err)
	}
	return prepared, nil
}

// prepare tags, normalizes, filters and scores one dataset.
func (e *Engine) prepare(ds Dataset, offset int) []Record {
	records := make([]Record, len(ds.Rows))
	for i, row := range ds.Rows {
		records[i] = Normalize(row, ds.Source, i, offset+i)
	}

	for _, f := range e.filters {
		before := len(records)
		records = f.Apply(records)
		e.log.WithFields(map[string]interface{}{
			"source":  ds.Source,
			"filter":  f.Name(),
			"dropped": before - len(records),
		}).Debug("Filter applied")
	}

	for i := range records {
		records[i].Score = Score(records[i].Volume, records[i].CPC)
	}
	return records
}

func validateDatasets(datasets []Dataset) error {
	seen := make(map[string]bool, len(datasets))
	for i, ds := range datasets {
		if ds.Source == "" {
			return &InputError{Reason: fmt.Sprintf("dataset %d has no source label", i+1)}
		}
		if seen[ds.Source] {
			return &InputError{Source: ds.Source, Reason: "duplicate source label"}
		}
		seen[ds.Source] = true
	}
	return nil
}
