package tui

import (
	"context"

	"github.com/Veraticus/compliance-sentinel/internal/advisory"
	"github.com/Veraticus/compliance-sentinel/internal/cli"
	"github.com/Veraticus/compliance-sentinel/internal/dashboard"
	"github.com/Veraticus/compliance-sentinel/internal/model"
	"github.com/Veraticus/compliance-sentinel/internal/rules"
	"github.com/Veraticus/compliance-sentinel/internal/tui/themes"
)

// Backend is the set of interaction handlers the dashboard drives.
type Backend interface {
	Overview(ctx context.Context) (dashboard.Overview, error)
	Inject(ctx context.Context, req dashboard.InjectRequest) (model.Transaction, error)
	AnalyzeTransaction(ctx context.Context, txn model.Transaction) (dashboard.BehaviorReport, error)
	AssessImpact(ctx context.Context, news string) (advisory.Advice, error)
	UpdateRule(ctx context.Context, req dashboard.UpdateRequest) (rules.Result, error)
	HasCredential() bool
	SetAPIKey(apiKey string)
}

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Backend  Backend
	Renderer *cli.MarkdownRenderer
	Provider string
	Width    int
	Height   int
	// AltScreen is disabled in tests.
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Width:     120,
		Height:    36,
		AltScreen: true,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithRenderer sets the markdown renderer for advisory text.
func WithRenderer(renderer *cli.MarkdownRenderer) Option {
	return func(c *Config) {
		c.Renderer = renderer
	}
}

// WithProvider names the LLM provider shown in the key prompt.
func WithProvider(provider string) Option {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
