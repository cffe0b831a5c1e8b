package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/compliance-sentinel/internal/common"
	"github.com/spf13/viper"
)

// Database file names inside the data directory.
const (
	TransactionDBFile = "compliance.db"
	RuleDBFile        = "regulations.db"
)

// Supported SQL drivers.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// DefaultDataDir is used when database.dir is not configured.
const DefaultDataDir = "$HOME/.local/share/sentinel"

// Database describes where the two stores live.
type Database struct {
	Dir    string
	Driver string
}

// TransactionPath returns the transaction store file.
func (d Database) TransactionPath() string {
	return filepath.Join(d.Dir, TransactionDBFile)
}

// RulePath returns the rule store file.
func (d Database) RulePath() string {
	return filepath.Join(d.Dir, RuleDBFile)
}

// LLM holds advisory provider settings.
type LLM struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Timeout     time.Duration
}

// HasCredential reports whether an API key was resolved.
func (l LLM) HasCredential() bool {
	return strings.TrimSpace(l.APIKey) != ""
}

// providerKeyEnv maps providers to the environment variable holding their key.
var providerKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// defaultModels are used when llm.model is not configured.
var defaultModels = map[string]string{
	"openai":    "gpt-3.5-turbo",
	"anthropic": "claude-3-haiku-20240307",
	"gemini":    "gemini-2.0-flash",
}

// LoadDatabase reads database settings from viper.
func LoadDatabase() (Database, error) {
	db := Database{
		Dir:    viper.GetString("database.dir"),
		Driver: viper.GetString("database.driver"),
	}
	if db.Dir == "" {
		db.Dir = DefaultDataDir
	}
	db.Dir = ExpandPath(db.Dir)

	if db.Driver == "" {
		db.Driver = DriverCGO
	}
	if db.Driver != DriverCGO && db.Driver != DriverPureGo {
		return Database{}, fmt.Errorf("%w: database.driver %q (want %s or %s)",
			common.ErrInvalidConfig, db.Driver, DriverCGO, DriverPureGo)
	}

	return db, nil
}

// LoadLLM reads advisory provider settings.
// The API key follows this precedence:
// 1. Viper configuration (config file, SENTINEL_LLM_API_KEY, or flags)
// 2. The provider's conventional environment variable (OPENAI_API_KEY, ...)
// A missing key is not an error; callers degrade to the missing-credential path.
func LoadLLM() (LLM, error) {
	cfg := LLM{
		Provider:    strings.ToLower(viper.GetString("llm.provider")),
		Model:       viper.GetString("llm.model"),
		APIKey:      viper.GetString("llm.api_key"),
		BaseURL:     viper.GetString("llm.base_url"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		Timeout:     viper.GetDuration("llm.timeout"),
	}

	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	envName, ok := providerKeyEnv[cfg.Provider]
	if !ok {
		return LLM{}, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, cfg.Provider)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(envName)
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 60
	}

	return cfg, nil
}

// KeyEnvVar returns the environment variable consulted for a provider's key.
func KeyEnvVar(provider string) string {
	return providerKeyEnv[strings.ToLower(provider)]
}
