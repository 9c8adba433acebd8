// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Provider identifies the generative backend implementation.
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderEcho   Provider = "echo"
)

// AIConfig holds settings for the generative backend used by both the
// style extractor and the generator.
type AIConfig struct {
	// Provider selects the backend: claude, openai, gemini, or echo.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the backend model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key. Usually loaded from .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout bounds every backend call (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxTokens caps the response length where the provider supports it (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// StoreDriver selects the Memory Store implementation.
type StoreDriver string

const (
	DriverSQLite StoreDriver = "sqlite"
	DriverRedis  StoreDriver = "redis"
)

// StoreConfig holds settings for the Memory Store.
type StoreConfig struct {
	// Driver is sqlite (default) or redis.
	Driver StoreDriver `json:"driver" yaml:"driver" mapstructure:"driver"`

	// Path is the SQLite database file (default "memory/style.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `json:"redis_addr" yaml:"redis_addr" mapstructure:"redis_addr"`

	// RedisDB is the Redis logical database number.
	RedisDB int `json:"redis_db" yaml:"redis_db" mapstructure:"redis_db"`

	// CacheSize is the number of scopes whose active profile is cached.
	// Zero disables the cache.
	CacheSize int `json:"cache_size" yaml:"cache_size" mapstructure:"cache_size"`
}

// StyleConfig holds extraction limits.
type StyleConfig struct {
	// ExcerptChars caps StyleProfile.SourceExcerpt (default 2000).
	ExcerptChars int `json:"excerpt_chars" yaml:"excerpt_chars" mapstructure:"excerpt_chars"`

	// MaxPromptChars caps the document text embedded in the extraction prompt (default 12000).
	MaxPromptChars int `json:"max_prompt_chars" yaml:"max_prompt_chars" mapstructure:"max_prompt_chars"`
}

// LogConfig controls the process-wide slog handler.
type LogConfig struct {
	// Level is debug, info, warn, or error (default warn).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text (default) or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings for the style-engine CLI.
type Config struct {
	AI    AIConfig    `json:"ai" yaml:"ai" mapstructure:"ai"`
	Store StoreConfig `json:"store" yaml:"store" mapstructure:"store"`
	Style StyleConfig `json:"style" yaml:"style" mapstructure:"style"`
	Log   LogConfig   `json:"log" yaml:"log" mapstructure:"log"`
}

// Default values applied by WithDefaults.
const (
	DefaultTimeout        = 2 * time.Minute
	DefaultMaxTokens      = 4096
	DefaultStorePath      = "memory/style.db"
	DefaultExcerptChars   = 2000
	DefaultMaxPromptChars = 12000
)

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderClaude
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = DefaultTimeout
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = DefaultMaxTokens
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSQLite
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}
	if c.Style.ExcerptChars <= 0 {
		c.Style.ExcerptChars = DefaultExcerptChars
	}
	if c.Style.MaxPromptChars <= 0 {
		c.Style.MaxPromptChars = DefaultMaxPromptChars
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	return c
}
