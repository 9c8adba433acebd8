// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/style-engine/pkg/types"
)

// configDefaults registers every key so config file values and
// STYLE_ENGINE_* environment variables both reach Unmarshal.
var configDefaults = map[string]any{
	"ai.provider":            string(types.ProviderClaude),
	"ai.model":               "",
	"ai.api_key":             "",
	"ai.base_url":            "",
	"ai.timeout":             types.DefaultTimeout,
	"ai.max_tokens":          types.DefaultMaxTokens,
	"store.driver":           string(types.DriverSQLite),
	"store.path":             types.DefaultStorePath,
	"store.redis_addr":       "",
	"store.redis_db":         0,
	"store.cache_size":       0,
	"style.excerpt_chars":    types.DefaultExcerptChars,
	"style.max_prompt_chars": types.DefaultMaxPromptChars,
	"log.level":              "warn",
	"log.format":             "text",
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("style-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "style-engine"))
		}
	}

	for k, v := range configDefaults {
		viper.SetDefault(k, v)
	}
	viper.SetEnvPrefix("STYLE_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the viper state into a Config with defaults applied.
func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c.WithDefaults(), nil
}

// setupLogger builds the slog logger for the CLI. Logs go to stderr so
// generated content on stdout stays clean.
func setupLogger(c types.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{}
	switch c.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelWarn
	}

	var handler slog.Handler
	if c.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}
