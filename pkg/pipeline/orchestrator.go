package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"seo-content-go/pkg/document"
	"seo-content-go/pkg/keyword"
	"seo-content-go/pkg/llm"
	"seo-content-go/pkg/logger"
	"seo-content-go/pkg/metrics"
	"seo-content-go/pkg/storage"
)

// Deps wires an Orchestrator. Metrics may be nil.
type Deps struct {
	Generator llm.Generator
	Catalog   *Catalog
	Documents *document.Loader
	Uploads   storage.Storage
	Outputs   storage.Storage
	Engine    *keyword.Engine
	Columns   keyword.Columns
	Validator *document.Validator
	Metrics   *metrics.Metrics
}

// StageResult describes a finished stage.
type StageResult struct {
	RunID     string        `json:"run_id"`
	Stage     Stage         `json:"stage"`
	Artifacts []string      `json:"artifacts"`
	Bundle    string        `json:"bundle,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// KeywordRun is the outcome of the keyword stage.
type KeywordRun struct {
	StageResult
	Selection *keyword.Result `json:"-"`
	CSV       []byte          `json:"-"`
}

// Upload is one uploaded file.
type Upload struct {
	Name string
	Data []byte
}

// Orchestrator runs the content stages against the upload and output stores.
type Orchestrator struct {
	gen     llm.Generator
	catalog *Catalog
	docs    *document.Loader
	uploads storage.Storage
	outputs storage.Storage
	engine  *keyword.Engine
	columns keyword.Columns
	valid   *document.Validator
	metrics *metrics.Metrics
	log     *logger.Logger
}

// New checks deps and the catalog.
func New(deps Deps) (*Orchestrator, error) {
	switch {
	case deps.Generator == nil:
		return nil, errors.New("pipeline: generator is required")
	case deps.Catalog == nil:
		return nil, errors.New("pipeline: catalog is required")
	case deps.Documents == nil:
		return nil, errors.New("pipeline: document loader is required")
	case deps.Uploads == nil || deps.Outputs == nil:
		return nil, errors.New("pipeline: upload and output storage are required")
	case deps.Engine == nil:
		return nil, errors.New("pipeline: keyword engine is required")
	}
	if err := deps.Catalog.Validate(AllTasks()); err != nil {
		return nil, err
	}
	if deps.Columns == (keyword.Columns{}) {
		deps.Columns = keyword.DefaultColumns()
	}
	if deps.Validator == nil {
		deps.Validator = document.NewValidator(0)
	}

	return &Orchestrator{
		gen:     deps.Generator,
		catalog: deps.Catalog,
		docs:    deps.Documents,
		uploads: deps.Uploads,
		outputs: deps.Outputs,
		engine:  deps.Engine,
		columns: deps.Columns,
		valid:   deps.Validator,
		metrics: deps.Metrics,
		log:     logger.Component("pipeline"),
	}, nil
}

type run struct {
	id        string
	stage     Stage
	start     time.Time
	artifacts []string
	progress  *logger.ProgressReporter
	log       *logger.Logger
}

func (o *Orchestrator) begin(stage Stage, company string) *run {
	id := uuid.New().String()
	log := o.log.WithFields(map[string]interface{}{
		"run_id": id,
		"stage":  string(stage),
	})
	if company != "" {
		log = log.WithField("company", company)
	}
	log.Info("Stage started")
	return &run{
		id:       id,
		stage:    stage,
		start:    time.Now(),
		progress: logger.NewProgressReporter(stages[stage].steps, string(stage), log),
		log:      log,
	}
}

func (o *Orchestrator) finish(ctx context.Context, r *run, err error) (*StageResult, error) {
	res := &StageResult{RunID: r.id, Stage: r.stage, Artifacts: r.artifacts}
	if err == nil {
		res.Bundle, err = o.bundle(ctx, r.stage)
	}

	res.Duration = time.Since(r.start)
	o.metrics.ObserveStage(string(r.stage), res.Duration, err)
	if err != nil {
		r.log.WithError(err).Error("Stage failed")
		return nil, err
	}

	r.progress.Complete()
	r.log.WithFields(map[string]interface{}{
		"artifacts":   len(r.artifacts),
		"duration_ms": res.Duration.Milliseconds(),
	}).Info("Stage completed")
	return res, nil
}

// bundle zips the stage members and stores the archive next to them.
func (o *Orchestrator) bundle(ctx context.Context, stage Stage) (string, error) {
	spec, ok := stages[stage]
	if !ok || spec.bundle == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := storage.WriteBundle(ctx, o.outputs, spec.members, &buf); err != nil {
		return "", fmt.Errorf("bundling %s: %w", stage, err)
	}
	if err := o.outputs.Save(ctx, spec.bundle, buf.Bytes()); err != nil {
		return "", fmt.Errorf("saving %s: %w", spec.bundle, err)
	}
	return spec.bundle, nil
}

func (o *Orchestrator) generate(ctx context.Context, r *run, task Task, data PromptData) (string, error) {
	instructions, err := o.catalog.Instruction(task.Instruction)
	if err != nil {
		return "", err
	}
	prompt, err := o.catalog.Render(task.Prompt, data)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := o.gen.Generate(ctx, instructions, prompt)
	o.metrics.ObserveGeneration(task.Name, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("%s: %w", task.Name, err)
	}
	r.progress.Step(task.Name)
	return text, nil
}

// edit runs the English editor over a draft.
func (o *Orchestrator) edit(ctx context.Context, r *run, name, content string) (string, error) {
	return o.generate(ctx, r, TaskEnglishEditor, PromptData{FileName: name, FileContent: content})
}

func (o *Orchestrator) save(ctx context.Context, r *run, name, text string) error {
	if err := o.outputs.SaveText(ctx, name, text); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	for _, a := range r.artifacts {
		if a == name {
			return nil
		}
	}
	r.artifacts = append(r.artifacts, name)
	return nil
}

// generateAndEdit runs task, stores the draft under name, then stores the
// edited text under final. final may equal name.
func (o *Orchestrator) generateAndEdit(ctx context.Context, r *run, task Task, data PromptData, name, final string) (string, error) {
	draft, err := o.generate(ctx, r, task, data)
	if err != nil {
		return "", err
	}
	if err := o.save(ctx, r, name, draft); err != nil {
		return "", err
	}
	edited, err := o.edit(ctx, r, name, draft)
	if err != nil {
		return "", err
	}
	if err := o.save(ctx, r, final, edited); err != nil {
		return "", err
	}
	return edited, nil
}

func (o *Orchestrator) documentData(ctx context.Context, company string) (PromptData, error) {
	set, err := o.docs.LoadSet(ctx)
	if err != nil {
		return PromptData{}, fmt.Errorf("loading documents: %w", err)
	}
	return PromptData{
		CompanyName:  company,
		ProductList:  set.Get(document.ProductList),
		USP:          set.Get(document.USP),
		KeyStats:     set.Get(document.KeyStats),
		AboutUs:      set.Get(document.AboutUs),
		ColourScheme: set.Get(document.ColourScheme),
	}, nil
}

// requireArtifacts loads the inputs a stage depends on.
func (o *Orchestrator) requireArtifacts(ctx context.Context, stage Stage) (map[string]string, error) {
	loaded := make(map[string]string)
	for _, name := range stages[stage].requires {
		text, err := o.outputs.LoadText(ctx, name)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &MissingArtifactError{Stage: stage, Name: name}
		}
		if err != nil {
			return nil, err
		}
		loaded[name] = text
	}
	return loaded, nil
}

func checkCompany(company string) (string, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return "", ErrCompanyRequired
	}
	return company, nil
}

// SaveDocument validates and stores one company document upload.
func (o *Orchestrator) SaveDocument(ctx context.Context, up Upload) error {
	if err := o.valid.Validate(up.Name, up.Data); err != nil {
		return err
	}
	if err := o.uploads.Save(ctx, up.Name, up.Data); err != nil {
		return fmt.Errorf("storing %s: %w", up.Name, err)
	}
	logger.GetSecurityLogger().SafeInfo("Document uploaded", map[string]interface{}{
		"name":  up.Name,
		"bytes": len(up.Data),
	})
	return nil
}

// Artifacts lists everything in the output store.
func (o *Orchestrator) Artifacts(ctx context.Context) ([]string, error) {
	return o.outputs.List(ctx)
}

// Bundle returns a stored stage bundle.
func (o *Orchestrator) Bundle(ctx context.Context, name string) ([]byte, error) {
	return o.outputs.Load(ctx, name)
}
