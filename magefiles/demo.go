//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// demoSample is analyzed by the Demo target.
const demoSample = `I never thought I'd be the person who gets up at five to run. But here I am.

The first week was rough. My legs hurt, my lungs burned, and I questioned every choice I'd made.

Then something shifted. Do you know that feeling when a habit stops being a chore? That's where I am now.`

// Demo runs analyze and generate end to end with the offline echo backend
// against a scratch store in output/demo.
func Demo() error {
	mg.Deps(Build)

	dir := filepath.Join("output", "demo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	sample := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(sample, []byte(demoSample), 0o644); err != nil {
		return fmt.Errorf("writing sample: %w", err)
	}

	env := map[string]string{
		"STYLE_ENGINE_AI_PROVIDER": "echo",
		"STYLE_ENGINE_STORE_PATH":  filepath.Join(dir, "style.db"),
		"STYLE_ENGINE_SCOPE":       "demo",
	}
	bin := filepath.Join(binDir, binName)
	steps := [][]string{
		{"analyze", sample},
		{"profile"},
		{"generate", "--output", filepath.Join(dir, "post.html"), "morning", "runs"},
		{"artifacts", "list"},
	}
	for _, args := range steps {
		if err := sh.RunWithV(env, bin, args...); err != nil {
			return fmt.Errorf("%s %v: %w", binName, args, err)
		}
	}
	return nil
}
