package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pathfinder/internal/domain"
	"github.com/kailas-cloud/pathfinder/internal/metrics"
)

// systemInstruction pins the backend to the strict-JSON contract. The
// per-request prompt repeats the exact shape; this keeps drift down when a
// backend weighs the system message heavily.
const systemInstruction = "You are a strict helpbox assistant. Your response must be a valid JSON " +
	"object containing an array of suggestions, with no additional text or thinking process."

// defaultTemperature biases decoding toward determinism while keeping
// sampling alive.
const defaultTemperature = 0.2

// Completer invokes an OpenAI-compatible chat-completion backend and returns
// the raw text of the first choice. No internal retries; retry policy is the
// caller's concern.
type Completer struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *zap.Logger
}

// CompleterConfig holds the completion backend settings.
type CompleterConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float32 // 0 means defaultTemperature
	MaxTokens      int
	RequestTimeout time.Duration // 0 disables the per-request deadline
	Logger         *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion client.
func NewCompleter(cfg *CompleterConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	temp := cfg.Temperature
	if temp <= 0 {
		temp = defaultTemperature
	}

	return &Completer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: temp,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.RequestTimeout,
		logger:      cfg.Logger,
	}
}

// Complete sends the prompt and returns the backend's raw text. Transport
// failures and non-success statuses map to domain.ErrBackendUnavailable; a
// well-formed envelope with no usable text maps to
// domain.ErrBackendEmptyResponse.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", parseAPIError("completion", err, domain.ErrBackendUnavailable)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response: %w", domain.ErrBackendEmptyResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty completion content: %w", domain.ErrBackendEmptyResponse)
	}

	c.logger.Debug("Completion received",
		zap.String("model", c.model),
		zap.Duration("latency", duration),
		zap.Int("content_length", len(content)),
	)
	return content, nil
}

// HealthCheck verifies API availability via ListModels.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
