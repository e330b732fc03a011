package worker

import (
	"context"
	"fmt"
	"time"

	"seo-content-go/pkg/logger"
)

type worker struct {
	id      int
	timeout time.Duration
	log     *logger.Logger
}

func newWorker(id int, timeout time.Duration, log *logger.Logger) *worker {
	return &worker{
		id:      id,
		timeout: timeout,
		log:     log.WithField("worker_id", id),
	}
}

// process executes one task with a timeout and panic recovery.
func (w *worker) process(ctx context.Context, task Task, metrics *PoolMetrics) Result {
	start := time.Now()

	timeout := task.Timeout
	if timeout == 0 {
		timeout = w.timeout
	}
	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				w.log.WithFields(map[string]interface{}{
					"task_id": task.ID,
					"panic":   r,
				}).Error("Task panicked")
				err = fmt.Errorf("task %s panicked: %v", task.ID, r)
			}
		}()
		err = task.Fn(taskCtx)
	}()

	duration := time.Since(start)
	if err != nil {
		metrics.IncrementTasksFailed()
		w.log.WithError(err).WithField("task_id", task.ID).Debug("Task failed")
	} else {
		metrics.IncrementTasksCompleted()
	}
	metrics.RecordTaskDuration(duration)

	return Result{TaskID: task.ID, Error: err, Duration: duration}
}
