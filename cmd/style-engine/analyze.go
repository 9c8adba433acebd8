// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/style-engine/internal/document"
	"github.com/pdiddy/style-engine/pkg/types"
)

const (
	previewChars        = 500
	structureShortChars = 50
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a writing sample and store its style profile",
	Long: `Analyze reads a PDF, DOCX, or plain-text article, extracts its tone,
voice, and structure, and makes the result the active style profile for
the scope. A previous profile is superseded, not modified.

PDF and DOCX files are converted with the markitdown container image
(docker or podman).`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	scope, err := currentScope()
	if err != nil {
		return err
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", filepath.Base(path))
	fmt.Fprintln(out, "Analyzing...")

	profile, err := a.pipeline.AnalyzeDocument(ctx, scope, filepath.Base(path), data)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		fmt.Fprintln(out, "\nText preview:")
		fmt.Fprintln(out, indent(document.Preview(profile.SourceExcerpt, previewChars)))
	}

	fmt.Fprintln(out, "\nStyle analysis:")
	printProfile(out, profile)
	if missing := profile.Partial(); len(missing) > 0 {
		fmt.Fprintf(out, "\nPartial analysis: %s not determined.\n", strings.Join(missing, ", "))
	}
	fmt.Fprintf(out, "\nAnalysis complete and style stored for scope %q.\n", scope)
	return nil
}

func printProfile(w io.Writer, p types.StyleProfile) {
	fmt.Fprintf(w, "  Tone:      %s\n", p.Tone)
	fmt.Fprintf(w, "  Voice:     %s\n", p.Voice)
	fmt.Fprintf(w, "  Structure: %s\n", shorten(p.Structure, structureShortChars))
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func init() {
	analyzeCmd.Flags().BoolP("quiet", "q", false, "do not print the text preview")

	rootCmd.AddCommand(analyzeCmd)
}
