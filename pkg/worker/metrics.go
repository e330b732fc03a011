package worker

import (
	"sync/atomic"
	"time"
)

// PoolMetrics tracks worker pool counters
type PoolMetrics struct {
	TasksSubmitted atomic.Uint64
	TasksCompleted atomic.Uint64
	TasksFailed    atomic.Uint64
	TotalDuration  atomic.Uint64 // nanoseconds
	MaxDuration    atomic.Uint64 // nanoseconds
}

// MetricsSnapshot is a point-in-time copy of PoolMetrics.
type MetricsSnapshot struct {
	TasksSubmitted uint64        `json:"tasks_submitted"`
	TasksCompleted uint64        `json:"tasks_completed"`
	TasksFailed    uint64        `json:"tasks_failed"`
	AverageTime    time.Duration `json:"average_time"`
	MaxTime        time.Duration `json:"max_time"`
}

func NewPoolMetrics() *PoolMetrics {
	return &PoolMetrics{}
}

func (pm *PoolMetrics) IncrementTasksSubmitted() {
	pm.TasksSubmitted.Add(1)
}

func (pm *PoolMetrics) IncrementTasksCompleted() {
	pm.TasksCompleted.Add(1)
}

func (pm *PoolMetrics) IncrementTasksFailed() {
	pm.TasksFailed.Add(1)
}

// RecordTaskDuration records task execution duration
func (pm *PoolMetrics) RecordTaskDuration(duration time.Duration) {
	nanos := uint64(duration.Nanoseconds())
	pm.TotalDuration.Add(nanos)

	for {
		current := pm.MaxDuration.Load()
		if nanos <= current || pm.MaxDuration.CompareAndSwap(current, nanos) {
			return
		}
	}
}

func (pm *PoolMetrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		TasksSubmitted: pm.TasksSubmitted.Load(),
		TasksCompleted: pm.TasksCompleted.Load(),
		TasksFailed:    pm.TasksFailed.Load(),
		MaxTime:        time.Duration(pm.MaxDuration.Load()),
	}
	if done := s.TasksCompleted + s.TasksFailed; done > 0 {
		s.AverageTime = time.Duration(pm.TotalDuration.Load() / done)
	}
	return s
}
