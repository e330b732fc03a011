package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Config selects where artifacts and uploads live.
type Config struct {
	Backend   string `mapstructure:"backend"`
	OutputDir string `mapstructure:"output_dir"`
	UploadDir string `mapstructure:"upload_dir"`
}

// Storage keeps named artifacts of a pipeline run.
type Storage interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	SaveText(ctx context.Context, name, text string) error
	LoadText(ctx context.Context, name string) (string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) error
	// List returns artifact names in lexical order.
	List(ctx context.Context) ([]string, error)
}
