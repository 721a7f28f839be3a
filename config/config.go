// Package config holds the explicit configuration passed into the context
// engine. Nothing here is process-wide state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lexandro/contextengine-mcp/llm"
)

// ErrMissingAPIKey is returned by Validate when no credential is configured.
var ErrMissingAPIKey = errors.New("OPENROUTER_API_KEY environment variable is not set; set it (or LLM_API_KEY) in your .env file or environment")

// Keys understood by Load. Dashed keys double as CLI flag names.
const (
	KeyAPIKey         = "api-key"
	KeyProvider       = "provider"
	KeyModel          = "model"
	KeyBaseURL        = "base-url"
	KeyMaxTokens      = "max-tokens"
	KeyMaxRetries     = "max-retries"
	KeyMaxFiles       = "max-files"
	KeyMaxLines       = "max-lines"
	KeyMarkerInterval = "marker-interval"
	KeyGenerateTerms  = "generate-terms"
	KeyCacheSnapshots = "cache-snapshots"
	KeyCacheSize      = "cache-size"
	KeyExclude        = "exclude"
	KeyLogLevel       = "log-level"
	KeyLogFile        = "log-file"
)

const envPrefix = "CONTEXTENGINE"

// LLM configures the reasoning-step provider.
type LLM struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	MaxTokens  int64
	MaxRetries int
}

// Options converts the section into provider options.
func (l LLM) Options() llm.Options {
	return llm.Options{
		Provider:   l.Provider,
		APIKey:     l.APIKey,
		Model:      l.Model,
		BaseURL:    l.BaseURL,
		MaxTokens:  l.MaxTokens,
		MaxRetries: l.MaxRetries,
	}
}

// Config is the full runtime configuration.
type Config struct {
	LLM LLM

	MaxFiles       int
	MaxLines       int
	MarkerInterval int
	GenerateTerms  bool

	CacheSnapshots bool
	CacheSize      int
	Excludes       []string

	LogLevel string
	LogFile  string
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// NewViper returns a viper instance with defaults and environment bindings.
// Callers may bind CLI flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv(KeyAPIKey, "OPENROUTER_API_KEY", "LLM_API_KEY")
	_ = v.BindEnv(KeyProvider, "LLM_PROVIDER")
	_ = v.BindEnv(KeyModel, "CONTEXT_MODEL")
	_ = v.BindEnv(KeyBaseURL, "LLM_BASE_URL")
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyProvider, llm.ProviderOpenRouter)
	v.SetDefault(KeyMaxTokens, 0)
	v.SetDefault(KeyMaxRetries, 2)
	v.SetDefault(KeyMaxFiles, 50)
	v.SetDefault(KeyMaxLines, 5000)
	v.SetDefault(KeyMarkerInterval, 50)
	v.SetDefault(KeyGenerateTerms, false)
	v.SetDefault(KeyCacheSnapshots, false)
	v.SetDefault(KeyCacheSize, 16)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, DefaultLogFile())
}

// DefaultLogFile is ~/.mcp/context_mcp/contextengine-mcp.log, or "" (stderr)
// when the home directory is unknown.
func DefaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mcp", "context_mcp", "contextengine-mcp.log")
}

// Load reads v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	provider := strings.ToLower(strings.TrimSpace(v.GetString(KeyProvider)))
	model := v.GetString(KeyModel)
	if model == "" {
		model = llm.DefaultModel(provider)
	}

	cfg := &Config{
		LLM: LLM{
			Provider:   provider,
			APIKey:     strings.TrimSpace(v.GetString(KeyAPIKey)),
			Model:      model,
			BaseURL:    v.GetString(KeyBaseURL),
			MaxTokens:  v.GetInt64(KeyMaxTokens),
			MaxRetries: v.GetInt(KeyMaxRetries),
		},
		MaxFiles:       v.GetInt(KeyMaxFiles),
		MaxLines:       v.GetInt(KeyMaxLines),
		MarkerInterval: v.GetInt(KeyMarkerInterval),
		GenerateTerms:  v.GetBool(KeyGenerateTerms),
		CacheSnapshots: v.GetBool(KeyCacheSnapshots),
		CacheSize:      v.GetInt(KeyCacheSize),
		Excludes:       v.GetStringSlice(KeyExclude),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFile:        v.GetString(KeyLogFile),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var supportedProviders = []string{llm.ProviderOpenRouter, llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini}

// Validate rejects a missing credential, an unknown provider and
// non-positive limits.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	if !slices.Contains(supportedProviders, c.LLM.Provider) {
		return &Error{Field: KeyProvider, Message: fmt.Sprintf("unsupported provider %q (supported: %s)", c.LLM.Provider, strings.Join(supportedProviders, ", "))}
	}
	limits := []struct {
		key   string
		value int
	}{
		{KeyMaxFiles, c.MaxFiles},
		{KeyMaxLines, c.MaxLines},
		{KeyMarkerInterval, c.MarkerInterval},
	}
	for _, l := range limits {
		if l.value <= 0 {
			return &Error{Field: l.key, Message: fmt.Sprintf("must be positive, got %d", l.value)}
		}
	}
	if c.CacheSnapshots && c.CacheSize <= 0 {
		return &Error{Field: KeyCacheSize, Message: fmt.Sprintf("must be positive when snapshot caching is enabled, got %d", c.CacheSize)}
	}
	return nil
}

// Error reports an invalid configuration field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
