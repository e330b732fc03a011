package logger

import (
	"fmt"
	"sync"
	"time"
)

// ProgressReporter logs the progress of a multi-step pipeline stage.
// Each step is a slow generation call, so every step is reported.
type ProgressReporter struct {
	mu          sync.RWMutex
	total       int
	current     int
	description string
	startTime   time.Time
	logger      *Logger
}

// NewProgressReporter creates a reporter for total steps.
func NewProgressReporter(total int, description string, log *Logger) *ProgressReporter {
	if log == nil {
		log = GetLogger()
	}
	return &ProgressReporter{
		total:       total,
		description: description,
		startTime:   time.Now(),
		logger:      log.WithField("component", "progress"),
	}
}

// Step records a finished step.
func (pr *ProgressReporter) Step(name string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current++
	pr.report(name)
}

// Complete marks the stage as finished.
func (pr *ProgressReporter) Complete() {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.current = pr.total
	pr.report("done")
}

// GetProgress returns current progress information
func (pr *ProgressReporter) GetProgress() (current, total int, percentage float64) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	return pr.current, pr.total, pr.percentage()
}

func (pr *ProgressReporter) percentage() float64 {
	if pr.total == 0 {
		return 100
	}
	return float64(pr.current) / float64(pr.total) * 100
}

// report must be called with the lock held.
func (pr *ProgressReporter) report(step string) {
	elapsed := time.Since(pr.startTime)

	var eta string
	if pr.current > 0 && pr.current < pr.total {
		avg := elapsed / time.Duration(pr.current)
		eta = fmt.Sprintf(" (ETA: %s)", (time.Duration(pr.total-pr.current) * avg).Round(time.Second))
	}

	pr.logger.WithFields(map[string]interface{}{
		"step":    step,
		"current": pr.current,
		"total":   pr.total,
		"elapsed": elapsed.Round(time.Millisecond).String(),
	}).Info(fmt.Sprintf("%s: %d/%d (%.1f%%)%s", pr.description, pr.current, pr.total, pr.percentage(), eta))
}
