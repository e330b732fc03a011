package config

import (
	"time"

	"seo-content-go/pkg/keyword"
	"seo-content-go/pkg/llm"
	"seo-content-go/pkg/logger"
	"seo-content-go/pkg/storage"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   storage.Config  `mapstructure:"storage"`
	LLM       llm.Config      `mapstructure:"llm"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	Prompts   PromptsConfig   `mapstructure:"prompts"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Logger    logger.Config   `mapstructure:"logger"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	BodyLimitMB     int           `mapstructure:"body_limit_mb"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ScoringConfig is the keyword selection policy plus the export columns.
type ScoringConfig struct {
	keyword.Policy `mapstructure:",squash"`
	Columns        keyword.Columns `mapstructure:"columns"`
}

type PromptsConfig struct {
	// CatalogPath overlays a YAML catalog on the embedded prompts.
	CatalogPath string `mapstructure:"catalog_path"`
}

type DocumentsConfig struct {
	MaxSizeMB int `mapstructure:"max_size_mb"`
}

type WorkerConfig struct {
	MaxWorkers int           `mapstructure:"max_workers"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
