package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"seo-content-go/internal/service"
	"seo-content-go/pkg/document"
	"seo-content-go/pkg/keyword"
	"seo-content-go/pkg/logger"
	"seo-content-go/pkg/metrics"
	"seo-content-go/pkg/pipeline"
)

type Controller struct {
	content service.ContentService
	metrics *metrics.Metrics
	log     *logger.Logger
}

type ControllerConfig struct {
	BodyLimitMB  int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StatusResponse struct {
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Storage   string   `json:"storage"`
	Artifacts []string `json:"artifacts,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type stageRequest struct {
	CompanyName string `json:"company_name" form:"company_name"`
}

func NewController(content service.ContentService, m *metrics.Metrics) *Controller {
	return &Controller{
		content: content,
		metrics: m,
		log:     logger.Component("http"),
	}
}

// App builds the fiber application with every route mounted.
func (c *Controller) App(cfg ControllerConfig) *fiber.App {
	if cfg.BodyLimitMB <= 0 {
		cfg.BodyLimitMB = 64
	}
	app := fiber.New(fiber.Config{
		AppName:               "seo-content",
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          c.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(c.requestLogger)

	app.Get("/healthz", c.health)
	if c.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(c.metrics.Handler()))
	}

	api := app.Group("/api/v1")
	api.Post("/documents/:name", c.uploadDocument)
	api.Post("/stages/brand", c.runStage(c.content.RunBrand))
	api.Post("/keywords", c.scoreKeywords)
	api.Post("/stages/content", c.runStage(c.content.RunContent))
	api.Post("/stages/pillar", c.runStage(c.content.RunPillar))
	api.Get("/bundle", c.bundleAll)
	api.Get("/artifacts", c.artifacts)

	return app
}

func (c *Controller) requestLogger(ctx *fiber.Ctx) error {
	start := time.Now()
	err := ctx.Next()

	status := ctx.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = statusFor(err)
		}
	}
	c.log.WithFields(map[string]interface{}{
		"method":      ctx.Method(),
		"path":        ctx.Path(),
		"status":      status,
		"duration_ms": time.Since(start).Milliseconds(),
		"request_id":  ctx.GetRespHeader(fiber.HeaderXRequestID),
	}).Info("Request handled")
	return err
}

// health always answers 200; storage problems only show in the body.
func (c *Controller) health(ctx *fiber.Ctx) error {
	resp := StatusResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Storage:   "ok",
	}
	names, err := c.content.Artifacts(ctx.UserContext())
	if err != nil {
		c.log.WithError(err).Warn("Listing artifacts for health check failed")
		resp.Storage = "unavailable"
	} else {
		resp.Artifacts = names
	}
	return ctx.JSON(resp)
}

func (c *Controller) uploadDocument(ctx *fiber.Ctx) error {
	name := ctx.Params("name")
	fh, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
	}
	data, err := readFile(fh)
	if err != nil {
		return err
	}

	if err := c.content.SaveDocument(ctx.UserContext(), pipeline.Upload{Name: name, Data: data}); err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"document": name, "bytes": len(data)})
}

type stageFunc func(ctx context.Context, company string) (*pipeline.StageResult, error)

func (c *Controller) runStage(run stageFunc) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var req stageRequest
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		res, err := run(ctx.UserContext(), req.CompanyName)
		if err != nil {
			return err
		}
		bundle, err := c.content.Bundle(ctx.UserContext(), res.Bundle)
		if err != nil {
			return err
		}

		ctx.Set("X-Run-ID", res.RunID)
		ctx.Attachment(res.Bundle)
		ctx.Set(fiber.HeaderContentType, "application/zip")
		return ctx.Send(bundle)
	}
}

func (c *Controller) scoreKeywords(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart form with \"files\" is required")
	}

	files := form.File["files"]
	uploads := make([]pipeline.Upload, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return err
		}
		uploads = append(uploads, pipeline.Upload{Name: fh.Filename, Data: data})
	}

	run, err := c.content.ScoreKeywords(ctx.UserContext(), uploads)
	if err != nil {
		return err
	}

	ctx.Set("X-Run-ID", run.RunID)
	ctx.Set("X-Keywords-Selected", strconv.Itoa(len(run.Selection.Records)))
	ctx.Attachment(pipeline.ArtifactTopKeywords)
	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return ctx.Send(run.CSV)
}

func (c *Controller) bundleAll(ctx *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := c.content.BundleAll(ctx.UserContext(), &buf); err != nil {
		return err
	}
	ctx.Attachment(pipeline.BundleAll)
	ctx.Set(fiber.HeaderContentType, "application/zip")
	return ctx.Send(buf.Bytes())
}

func (c *Controller) artifacts(ctx *fiber.Ctx) error {
	names, err := c.content.Artifacts(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"artifacts": names})
}

func (c *Controller) errorHandler(ctx *fiber.Ctx, err error) error {
	code := statusFor(err)
	msg := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		logger.GetSecurityLogger().SafeError("Request failed", err, map[string]interface{}{
			"path": ctx.Path(),
		})
		msg = "internal error"
	}
	return ctx.Status(code).JSON(ErrorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var validation *document.ValidationError
	switch {
	case errors.Is(err, keyword.ErrInvalidInput),
		errors.Is(err, pipeline.ErrCompanyRequired),
		errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.Is(err, pipeline.ErrMissingArtifact):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
	}
	return data, nil
}
