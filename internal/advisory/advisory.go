// Package advisory produces free-text compliance commentary for transactions
// and regulatory news by forwarding templated prompts to an LLM provider.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/compliance-sentinel/internal/llm"
	"github.com/Veraticus/compliance-sentinel/internal/model"
)

// MissingCredentialText is shown in place of advice when no API key is configured.
const MissingCredentialText = "⚠️ API Key Missing."

var (
	// ErrMissingCredential means no API key was available; no call was made.
	ErrMissingCredential = errors.New("API key missing")
	// ErrCompletionFailed means the provider call did not produce a reply.
	ErrCompletionFailed = errors.New("completion failed")
)

// CallError reports a failed provider call.
type CallError struct {
	Cause    error
	Provider string
}

func (e *CallError) Error() string {
	return e.Cause.Error()
}

// Unwrap exposes both the completion sentinel and the underlying cause.
func (e *CallError) Unwrap() []error {
	return []error{ErrCompletionFailed, e.Cause}
}

// Advice is a successful advisory reply.
type Advice struct {
	Text     string
	Provider string
	Model    string
}

// Display returns the text to show for an advisory outcome.
func Display(advice Advice, err error) string {
	switch {
	case err == nil:
		return advice.Text
	case errors.Is(err, ErrMissingCredential):
		return MissingCredentialText
	default:
		var callErr *CallError
		if errors.As(err, &callErr) {
			return callErr.Cause.Error()
		}
		return err.Error()
	}
}

// ProviderFactory builds a provider client for an API key.
type ProviderFactory func(ctx context.Context, apiKey string) (llm.Client, error)

// Client turns domain records into prompts and sends them to a provider.
// The provider is built on first use, so a client without a key never
// constructs or calls one.
type Client struct {
	factory  ProviderFactory
	provider llm.Client
	prompts  *PromptBuilder
	apiKey   string
	mu       sync.Mutex
}

// New creates an advisory client. An empty apiKey puts the client in manual
// mode, where every request returns ErrMissingCredential.
func New(apiKey string, factory ProviderFactory) (*Client, error) {
	prompts, err := NewPromptBuilder()
	if err != nil {
		return nil, err
	}
	return &Client{
		factory: factory,
		prompts: prompts,
		apiKey:  strings.TrimSpace(apiKey),
	}, nil
}

// SetAPIKey replaces the credential for the rest of the session.
func (c *Client) SetAPIKey(apiKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeProvider()
	c.apiKey = strings.TrimSpace(apiKey)
}

// HasCredential reports whether requests will reach a provider.
func (c *Client) HasCredential() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey != ""
}

// AnalyzeBehavior asks for a risk explanation of txn given customer's profile.
func (c *Client) AnalyzeBehavior(ctx context.Context, txn model.Transaction, customer model.Customer) (Advice, error) {
	if !c.HasCredential() {
		return Advice{}, ErrMissingCredential
	}

	prompt, err := c.prompts.BuildBehavior(BehaviorData{Transaction: txn, Customer: customer})
	if err != nil {
		return Advice{}, err
	}

	slog.Info("Requesting behavioral analysis", "transaction", txn.ID, "user", txn.User)
	return c.complete(ctx, prompt)
}

// AnalyzeRegulation asks whether news conflicts with the rules in snapshot.
func (c *Client) AnalyzeRegulation(ctx context.Context, news, snapshot string) (Advice, error) {
	if !c.HasCredential() {
		return Advice{}, ErrMissingCredential
	}

	prompt, err := c.prompts.BuildRegulation(RegulationData{Rules: snapshot, News: news})
	if err != nil {
		return Advice{}, err
	}

	slog.Info("Requesting regulatory impact analysis", "news_chars", len(news))
	return c.complete(ctx, prompt)
}

func (c *Client) complete(ctx context.Context, prompt string) (Advice, error) {
	provider, err := c.currentProvider(ctx)
	if err != nil {
		return Advice{}, &CallError{Cause: err}
	}

	text, err := provider.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("Advisory call failed", "provider", provider.Provider(), "error", err)
		return Advice{}, &CallError{Provider: provider.Provider(), Cause: err}
	}
	return Advice{
		Text:     text,
		Provider: provider.Provider(),
		Model:    provider.Model(),
	}, nil
}

func (c *Client) currentProvider(ctx context.Context) (llm.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.provider != nil {
		return c.provider, nil
	}
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}
	if c.factory == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	provider, err := c.factory(ctx, c.apiKey)
	if err != nil {
		return nil, err
	}
	c.provider = provider
	return provider, nil
}

// closeProvider releases the current provider. Callers hold c.mu.
func (c *Client) closeProvider() {
	if closer, ok := c.provider.(interface{ Close() }); ok {
		closer.Close()
	}
	c.provider = nil
}

// Close releases the provider, if one was built.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeProvider()
}
