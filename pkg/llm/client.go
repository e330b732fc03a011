package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"seo-content-go/pkg/logger"
)

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "gpt-4o"
	DefaultMaxTokens = 4000
)

// Config configures the chat-completions client.
type Config struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	MaxConnsPerHost int           `mapstructure:"max_conns_per_host"`

	// BreakerThreshold consecutive failures open the breaker; 0 disables it.
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
}

// DefaultConfig returns settings for the public OpenAI endpoint.
func DefaultConfig() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		Model:            DefaultModel,
		MaxTokens:        DefaultMaxTokens,
		Timeout:          120 * time.Second,
		MaxRetries:       3,
		RetryDelay:       time.Second,
		MaxConnsPerHost:  16,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Stats is a snapshot of client counters.
type Stats struct {
	TotalRequests  uint64
	FailedRequests uint64
	TotalLatencyMs uint64
}

// Client calls an OpenAI compatible chat-completions endpoint.
type Client struct {
	config   Config
	endpoint string
	http     *fasthttp.Client
	retry    *Retry
	breaker  *CircuitBreaker
	log      *logger.Logger

	totalRequests  uint64
	failedRequests uint64
	totalLatency   uint64
}

// NewClient builds a client, filling zero fields from DefaultConfig.
func NewClient(config Config) *Client {
	def := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.Model == "" {
		config.Model = def.Model
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = def.MaxTokens
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxConnsPerHost <= 0 {
		config.MaxConnsPerHost = def.MaxConnsPerHost
	}

	sec := logger.GetSecurityLogger()
	c := &Client{
		config:   config,
		endpoint: strings.TrimRight(config.BaseURL, "/") + "/chat/completions",
		http: &fasthttp.Client{
			Name:                "seo-content-go/1.0",
			MaxConnsPerHost:     config.MaxConnsPerHost,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        30 * time.Second,
			MaxIdleConnDuration: 90 * time.Second,
		},
		retry:   NewRetry(config.MaxRetries, config.RetryDelay),
		breaker: NewCircuitBreaker(config.BreakerThreshold, config.BreakerCooldown),
		log:     logger.Component("llm_client"),
	}

	c.log.WithFields(map[string]interface{}{
		"endpoint": sec.MaskEndpoint(c.endpoint),
		"api_key":  sec.MaskAPIKey(config.APIKey),
		"model":    config.Model,
	}).Debug("Generation client created")
	return c
}

// Generate sends instructions as the system message and prompt as the user
// message and returns the first choice.
func (c *Client) Generate(ctx context.Context, instructions, prompt string) (string, error) {
	atomic.AddUint64(&c.totalRequests, 1)
	start := time.Now()
	defer func() {
		atomic.AddUint64(&c.totalLatency, uint64(time.Since(start).Milliseconds()))
	}()

	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []message{
			{Role: "system", Content: instructions},
			{Role: "user", Content: prompt},
		},
		MaxTokens: c.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	var text string
	err = c.breaker.Execute(ctx, func() error {
		return c.retry.Execute(ctx, func() error {
			var callErr error
			text, callErr = c.do(ctx, body)
			if callErr != nil {
				c.log.WithError(callErr).Debug("Generation attempt failed")
			}
			return callErr
		})
	})
	if err != nil {
		atomic.AddUint64(&c.failedRequests, 1)
		logger.GetSecurityLogger().SafeError("Generation request failed", err, map[string]interface{}{
			"model":   c.config.Model,
			"prompt":  prompt,
			"breaker": c.breaker.State().String(),
		})
		return "", err
	}

	c.log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Generation completed")
	return text, nil
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	req.SetBody(body)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.DoTimeout(req, resp, c.config.Timeout)
	}
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return "", &StatusError{Code: resp.StatusCode(), Body: string(resp.Body())}
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	c.log.WithFields(map[string]interface{}{
		"prompt_tokens":     parsed.Usage.PromptTokens,
		"completion_tokens": parsed.Usage.CompletionTokens,
		"finish_reason":     parsed.Choices[0].FinishReason,
	}).Debug("Generation response received")
	return parsed.Choices[0].Message.Content, nil
}

// Stats returns the request counters.
func (c *Client) Stats() Stats {
	return Stats{
		TotalRequests:  atomic.LoadUint64(&c.totalRequests),
		FailedRequests: atomic.LoadUint64(&c.failedRequests),
		TotalLatencyMs: atomic.LoadUint64(&c.totalLatency),
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
