package service

import (
	"context"
	"io"

	"seo-content-go/pkg/pipeline"
)

// ContentService runs the content pipeline stages.
type ContentService interface {
	SaveDocument(ctx context.Context, up pipeline.Upload) error
	RunBrand(ctx context.Context, company string) (*pipeline.StageResult, error)
	ScoreKeywords(ctx context.Context, uploads []pipeline.Upload) (*pipeline.KeywordRun, error)
	RunContent(ctx context.Context, company string) (*pipeline.StageResult, error)
	RunPillar(ctx context.Context, company string) (*pipeline.StageResult, error)
	Bundle(ctx context.Context, name string) ([]byte, error)
	BundleAll(ctx context.Context, w io.Writer) error
	Artifacts(ctx context.Context) ([]string, error)
}

var _ ContentService = (*pipeline.Orchestrator)(nil)
