package worker

import (
	"context"
	"runtime"
	"sync"
	"time"

	"seo-content-go/pkg/logger"
)

// Task represents a unit of work to be executed
type Task struct {
	ID      string
	Fn      func(ctx context.Context) error
	Timeout time.Duration
}

// Result represents the result of task execution
type Result struct {
	TaskID   string
	Error    error
	Duration time.Duration
}

// PoolConfig holds configuration for the worker pool
type PoolConfig struct {
	MaxWorkers    int           `json:"max_workers"`
	WorkerTimeout time.Duration `json:"worker_timeout"`
}

// DefaultPoolConfig sizes the pool to the machine.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxWorkers:    runtime.NumCPU(),
		WorkerTimeout: 2 * time.Minute,
	}
}

// Pool runs batches of tasks on a bounded number of goroutines.
type Pool struct {
	config  PoolConfig
	metrics *PoolMetrics
	log     *logger.Logger
}

// NewPool creates a pool. A non-positive MaxWorkers means one worker.
func NewPool(config PoolConfig) *Pool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 1
	}
	if config.WorkerTimeout <= 0 {
		config.WorkerTimeout = DefaultPoolConfig().WorkerTimeout
	}
	return &Pool{
		config:  config,
		metrics: NewPoolMetrics(),
		log:     logger.Component("worker_pool"),
	}
}

// Run executes tasks and blocks until all of them finished or ctx is done.
// Results are returned in task order. Tasks not started before ctx ends
// report ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	workers := p.config.MaxWorkers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	queue := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		w := newWorker(i, p.config.WorkerTimeout, p.log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				results[idx] = w.process(ctx, tasks[idx], p.metrics)
			}
		}()
	}

	p.log.WithFields(map[string]interface{}{
		"tasks":   len(tasks),
		"workers": workers,
	}).Debug("Dispatching tasks")

dispatch:
	for i := range tasks {
		select {
		case queue <- i:
			p.metrics.IncrementTasksSubmitted()
		case <-ctx.Done():
			for j := i; j < len(tasks); j++ {
				results[j] = Result{TaskID: tasks[j].ID, Error: ctx.Err()}
			}
			break dispatch
		}
	}
	close(queue)
	wg.Wait()

	return results
}

// Metrics returns a snapshot of pool counters.
func (p *Pool) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}

// FirstError returns the first failed result's error, in task order.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Error != nil {
			return r.Error
		}
	}
	return nil
}
