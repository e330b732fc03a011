package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunKeepsTaskOrder(t *testing.T) {
	pool := NewPool(PoolConfig{MaxWorkers: 3})
	out := make([]int, 10)
	tasks := make([]Task, 10)
	for i := range tasks {
		i := i
		tasks[i] = Task{
			ID: fmt.Sprintf("task-%d", i),
			Fn: func(ctx context.Context) error {
				time.Sleep(time.Duration(10-i) * time.Millisecond)
				out[i] = i * i
				return nil
			},
		}
	}

	results := pool.Run(context.Background(), tasks)

	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("task-%d", i), r.TaskID)
		assert.NoError(t, r.Error)
		assert.Equal(t, i*i, out[i])
	}
	snap := pool.Metrics()
	assert.Equal(t, uint64(10), snap.TasksSubmitted)
	assert.Equal(t, uint64(10), snap.TasksCompleted)
}

func TestPoolRecoversPanics(t *testing.T) {
	pool := NewPool(PoolConfig{MaxWorkers: 2})
	results := pool.Run(context.Background(), []Task{
		{ID: "ok", Fn: func(ctx context.Context) error { return nil }},
		{ID: "boom", Fn: func(ctx context.Context) error { panic("bad pdf") }},
	})

	assert.NoError(t, results[0].Error)
	require.Error(t, results[1].Error)
	assert.Contains(t, results[1].Error.Error(), "bad pdf")
	assert.Equal(t, results[1].Error, FirstError(results))
	assert.Equal(t, uint64(1), pool.Metrics().TasksFailed)
}

func TestPoolTaskTimeout(t *testing.T) {
	pool := NewPool(PoolConfig{MaxWorkers: 1, WorkerTimeout: 20 * time.Millisecond})
	results := pool.Run(context.Background(), []Task{{
		ID: "slow",
		Fn: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}})

	assert.True(t, errors.Is(results[0].Error, context.DeadlineExceeded))
}

func TestPoolCancelledContext(t *testing.T) {
	pool := NewPool(PoolConfig{MaxWorkers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	tasks := make([]Task, 5)
	for i := range tasks {
		tasks[i] = Task{ID: fmt.Sprint(i), Fn: func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return ctx.Err()
		}}
	}

	results := pool.Run(ctx, tasks)

	for _, r := range results {
		assert.Error(t, r.Error)
	}
	assert.Error(t, FirstError(results))
}

func TestPoolEmpty(t *testing.T) {
	assert.Empty(t, NewPool(DefaultPoolConfig()).Run(context.Background(), nil))
	assert.NoError(t, FirstError(nil))
}
