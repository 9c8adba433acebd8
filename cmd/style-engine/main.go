// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the style-engine CLI. It analyzes a
// writing sample into a style profile and generates new posts in that style.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/style-engine/internal/secrets"
	"github.com/pdiddy/style-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, set before any subcommand runs.
	cfg types.Config

	// logger is the process-wide structured logger.
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "style-engine",
	Short: "Learn a writing style from a sample and write new posts in it",
	Long: `style-engine analyzes one of your articles into a style profile (tone,
voice, structure), stores it per scope, and generates new blog posts that
follow the stored profile.

Start with "style-engine analyze <file>", then "style-engine generate <topic>".
Every command works within one scope (--scope, default "default").`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		logger = setupLogger(cfg.Log)

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Info("loaded secrets", "keys", keys)
		}
		secrets.ApplyAPIKey(&cfg.AI, s)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./style-engine.yaml or ~/.config/style-engine/style-engine.yaml)")
	rootCmd.PersistentFlags().String("scope", string(types.DefaultScope), "session or user the profile and artifacts belong to")
	_ = viper.BindPFlag("scope", rootCmd.PersistentFlags().Lookup("scope"))
}

// currentScope returns the scope selected by --scope or STYLE_ENGINE_SCOPE.
func currentScope() (types.Scope, error) {
	scope := types.Scope(viper.GetString("scope"))
	if err := scope.Validate(); err != nil {
		return "", fmt.Errorf("--scope: %w", err)
	}
	return scope, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
