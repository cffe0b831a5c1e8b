package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/compliance-sentinel/internal/common"
)

// NewProvider creates the bare provider client named by cfg.Provider.
func NewProvider(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	case ProviderGemini:
		return newGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// NewClient creates a provider client gated by a rate limiter and the
// configured retry policy. Callers must Close it when done.
func NewClient(ctx context.Context, cfg Config) (*Limited, error) {
	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Wrap(provider, cfg), nil
}

// Limited wraps a Client with rate limiting and retries.
type Limited struct {
	client  Client
	limiter *rateLimiter
	retry   common.RetryOptions
}

// Wrap gates client behind a rate limiter built from cfg.
func Wrap(client Client, cfg Config) *Limited {
	return &Limited{
		client:  client,
		limiter: newRateLimiter(cfg.RateLimit),
		retry: common.RetryOptions{
			MaxAttempts:  cfg.MaxRetries,
			InitialDelay: cfg.RetryDelay,
		},
	}
}

// Complete waits for a rate limit token and calls the provider.
func (l *Limited) Complete(ctx context.Context, prompt string) (string, error) {
	var reply string
	err := common.WithRetry(ctx, func() error {
		if err := l.limiter.wait(ctx); err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}

		var callErr error
		reply, callErr = l.client.Complete(ctx, prompt)
		return callErr
	}, l.retry)
	if err != nil {
		return "", err
	}

	slog.Debug("LLM completion",
		"provider", l.client.Provider(),
		"model", l.client.Model(),
		"prompt_chars", len(prompt),
		"reply_chars", len(reply))
	return reply, nil
}

// Provider returns the wrapped provider name.
func (l *Limited) Provider() string { return l.client.Provider() }

// Model returns the wrapped model id.
func (l *Limited) Model() string { return l.client.Model() }

// Close stops the rate limiter.
func (l *Limited) Close() {
	l.limiter.Close()
}
