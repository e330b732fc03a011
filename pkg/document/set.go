package document

import (
	"context"
	"fmt"
	"sync"
	"time"

	"seo-content-go/pkg/logger"
	"seo-content-go/pkg/storage"
	"seo-content-go/pkg/worker"
)

// Set maps a document name to its extracted text.
type Set map[string]string

// Get returns the text of name, or "" when it was not uploaded.
func (s Set) Get(name string) string {
	return s[name]
}

// Loader extracts the company documents from the upload store.
type Loader struct {
	uploads storage.Storage
	reader  Reader
	pool    *worker.Pool
	log     *logger.Logger
}

func NewLoader(uploads storage.Storage, reader Reader, pool *worker.Pool) *Loader {
	return &Loader{
		uploads: uploads,
		reader:  reader,
		pool:    pool,
		log:     logger.Component("document_loader"),
	}
}

// LoadSet reads every required document concurrently. Documents that were
// never uploaded are left empty; unreadable ones fail the set.
func (l *Loader) LoadSet(ctx context.Context) (Set, error) {
	names := Required()
	set := make(Set, len(names))
	var mu sync.Mutex

	tasks := make([]worker.Task, len(names))
	for i, name := range names {
		name := name
		tasks[i] = worker.Task{
			ID: name,
			Fn: func(ctx context.Context) error {
				text, err := l.Load(ctx, name)
				if err != nil {
					return err
				}
				mu.Lock()
				set[name] = text
				mu.Unlock()
				return nil
			},
		}
	}

	start := time.Now()
	if err := worker.FirstError(l.pool.Run(ctx, tasks)); err != nil {
		return nil, err
	}

	sec := logger.GetSecurityLogger()
	fields := map[string]interface{}{"duration_ms": time.Since(start).Milliseconds()}
	for _, name := range names {
		fields[name] = sec.MaskDocument(set[name])
	}
	l.log.WithFields(fields).Info("Document set loaded")
	return set, nil
}

// Load extracts one document. A missing upload yields "".
func (l *Loader) Load(ctx context.Context, name string) (string, error) {
	exists, err := l.uploads.Exists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", name, err)
	}
	if !exists {
		l.log.WithField("document", name).Warn("Document not uploaded, using empty text")
		return "", nil
	}

	data, err := l.uploads.Load(ctx, name)
	if err != nil {
		return "", err
	}
	text, err := l.reader.Text(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", name, err)
	}
	return text, nil
}
