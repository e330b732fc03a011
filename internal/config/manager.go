package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"seo-content-go/pkg/keyword"
	"seo-content-go/pkg/llm"
)

// EnvPrefix prefixes every environment override, e.g. CONTENT_SERVER_PORT.
const EnvPrefix = "CONTENT"

type manager struct {
	mu      sync.RWMutex
	config  *Config
	viper   *viper.Viper
	envFile string
}

// Option customises a Manager.
type Option func(*manager)

// WithEnvFile loads secrets from a dotenv file before reading the
// environment. Variables already set win.
func WithEnvFile(path string) Option {
	return func(m *manager) { m.envFile = path }
}

func NewManager(opts ...Option) Manager {
	m := &manager{
		viper:   viper.New(),
		envFile: ".env",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads configPath over the defaults. An empty path uses defaults and
// the environment only.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setupViper(configPath); err != nil {
		return nil, fmt.Errorf("failed to setup viper: %w", err)
	}

	if configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return m.decode()
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	if m.viper.ConfigFileUsed() != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to reload config: %w", err)
		}
	}

	_, err := m.decode()
	return err
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// decode must be called with the lock held.
func (m *manager) decode() (*Config, error) {
	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m.config = &config
	return &config, nil
}

func (m *manager) setupViper(configPath string) error {
	if m.envFile != "" {
		if err := godotenv.Load(m.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", m.envFile, err)
		}
	}

	if configPath != "" {
		m.viper.SetConfigFile(configPath)
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
	if err := m.viper.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "OPENAI_API_KEY"); err != nil {
		return err
	}

	setDefaults(m.viper)
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit_mb", 64)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "15m")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.output_dir", "processed/output_files")
	v.SetDefault("storage.upload_dir", "uploads")

	def := llm.DefaultConfig()
	v.SetDefault("llm.base_url", def.BaseURL)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", def.Model)
	v.SetDefault("llm.max_tokens", def.MaxTokens)
	v.SetDefault("llm.timeout", def.Timeout.String())
	v.SetDefault("llm.max_retries", def.MaxRetries)
	v.SetDefault("llm.retry_delay", def.RetryDelay.String())
	v.SetDefault("llm.max_conns_per_host", def.MaxConnsPerHost)
	v.SetDefault("llm.breaker_threshold", def.BreakerThreshold)
	v.SetDefault("llm.breaker_cooldown", def.BreakerCooldown.String())

	policy := keyword.DefaultPolicy()
	v.SetDefault("scoring.source_quota", policy.SourceQuota)
	v.SetDefault("scoring.capacity", policy.Capacity)
	v.SetDefault("scoring.min_volume", policy.MinVolume)
	v.SetDefault("scoring.min_cpc", policy.MinCPC)
	v.SetDefault("scoring.difficulty_min", policy.DifficultyMin)
	v.SetDefault("scoring.difficulty_max", policy.DifficultyMax)
	v.SetDefault("scoring.backfill", string(policy.Backfill))
	v.SetDefault("scoring.parallelism", policy.Parallelism)
	cols := keyword.DefaultColumns()
	v.SetDefault("scoring.columns.keyword", cols.Keyword)
	v.SetDefault("scoring.columns.volume", cols.Volume)
	v.SetDefault("scoring.columns.difficulty", cols.Difficulty)
	v.SetDefault("scoring.columns.cpc", cols.CPC)

	v.SetDefault("prompts.catalog_path", "")
	v.SetDefault("documents.max_size_mb", 50)

	v.SetDefault("worker.max_workers", 4)
	v.SetDefault("worker.timeout", "5m")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.time_format", "")
}

func (m *manager) validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	switch config.Storage.Backend {
	case "memory":
	case "file":
		if config.Storage.OutputDir == "" || config.Storage.UploadDir == "" {
			return fmt.Errorf("output_dir and upload_dir cannot be empty")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}

	if config.LLM.Model == "" {
		return fmt.Errorf("llm model cannot be empty")
	}
	if config.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm max_retries cannot be negative")
	}
	if config.LLM.BreakerThreshold < 0 {
		return fmt.Errorf("llm breaker_threshold cannot be negative")
	}

	if err := config.Scoring.Policy.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	cols := config.Scoring.Columns
	if cols.Keyword == "" || cols.Volume == "" || cols.Difficulty == "" || cols.CPC == "" {
		return fmt.Errorf("scoring columns cannot be empty")
	}

	if config.Worker.MaxWorkers <= 0 {
		return fmt.Errorf("max_workers must be positive")
	}

	return nil
}
