// Package app wires configuration into a ready pipeline.
package app

import (
	"fmt"

	"seo-content-go/internal/config"
	"seo-content-go/pkg/document"
	"seo-content-go/pkg/keyword"
	"seo-content-go/pkg/llm"
	"seo-content-go/pkg/logger"
	"seo-content-go/pkg/metrics"
	"seo-content-go/pkg/pipeline"
	"seo-content-go/pkg/storage"
	"seo-content-go/pkg/worker"
)

type App struct {
	Config   *config.Config
	Pipeline *pipeline.Orchestrator
	Engine   *keyword.Engine
	Metrics  *metrics.Metrics
	Uploads  storage.Storage
	Outputs  storage.Storage
	Log      *logger.Logger

	client *llm.Client
}

// New builds every component from cfg. The global logger is replaced.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(cfg.Logger)
	logger.SetLogger(log)

	m := metrics.New()

	uploads, outputs, err := openStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	catalog, err := pipeline.LoadCatalog(cfg.Prompts.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading prompt catalog: %w", err)
	}

	engine, err := keyword.NewEngine(cfg.Scoring.Policy, keyword.WithMetrics(m))
	if err != nil {
		return nil, err
	}

	pool := worker.NewPool(worker.PoolConfig{
		MaxWorkers:    cfg.Worker.MaxWorkers,
		WorkerTimeout: cfg.Worker.Timeout,
	})
	client := llm.NewClient(cfg.LLM)

	orch, err := pipeline.New(pipeline.Deps{
		Generator: client,
		Catalog:   catalog,
		Documents: document.NewLoader(uploads, document.NewFitzReader(), pool),
		Uploads:   uploads,
		Outputs:   outputs,
		Engine:    engine,
		Columns:   cfg.Scoring.Columns,
		Validator: document.NewValidator(cfg.Documents.MaxSizeMB * 1024 * 1024),
		Metrics:   m,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return &App{
		Config:   cfg,
		Pipeline: orch,
		Engine:   engine,
		Metrics:  m,
		Uploads:  uploads,
		Outputs:  outputs,
		Log:      log,
		client:   client,
	}, nil
}

// Close releases idle connections and logs client totals.
func (a *App) Close() {
	stats := a.client.Stats()
	a.Log.WithFields(map[string]interface{}{
		"requests": stats.TotalRequests,
		"failures": stats.FailedRequests,
	}).Info("Generation client closed")
	a.client.Close()
}

func openStorage(cfg storage.Config) (uploads, outputs storage.Storage, err error) {
	if cfg.Backend == "memory" {
		return storage.NewMemoryStorage(), storage.NewMemoryStorage(), nil
	}
	up, err := storage.NewFileStorage(cfg.UploadDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening upload dir: %w", err)
	}
	out, err := storage.NewFileStorage(cfg.OutputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening output dir: %w", err)
	}
	return up, out, nil
}
