// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files. The
// filename is the key name and the trimmed contents are the value.
//
// Recognized files: anthropic-api-key, openai-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/style-engine/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// keyFiles maps each provider to the secret file holding its API key.
var keyFiles = map[types.Provider]string{
	types.ProviderClaude: "anthropic-api-key",
	types.ProviderOpenAI: "openai-api-key",
	types.ProviderGemini: "gemini-api-key",
}

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty map. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// KeyFile returns the secret file name for provider, or "" when the
// provider needs no key.
func KeyFile(provider types.Provider) string {
	if provider == "" {
		provider = types.ProviderClaude
	}
	return keyFiles[provider]
}

// ApplyAPIKey fills cfg.APIKey from secrets when it is not already set.
// Keys from the config file or environment take precedence.
func ApplyAPIKey(cfg *types.AIConfig, secrets map[string]string) {
	if cfg.APIKey != "" {
		return
	}
	if name := KeyFile(cfg.Provider); name != "" {
		cfg.APIKey = secrets[name]
	}
}
