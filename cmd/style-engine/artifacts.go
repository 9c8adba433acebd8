// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/style-engine/internal/memory"
	"github.com/pdiddy/style-engine/pkg/types"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List, search, and export generated posts",
	Long: `Artifacts reads the generated posts stored for the scope. Each artifact
records the topic, the full content, and the style profile it was written
under. Artifacts are never modified or deleted.`,
}

// --- list subcommand ---

var artifactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated posts, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := currentScope()
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		topic, _ := cmd.Flags().GetString("topic")
		limit, _ := cmd.Flags().GetInt("limit")
		arts, err := a.store.ListArtifacts(cmd.Context(), scope, memory.ListOptions{Topic: topic, Limit: limit})
		if err != nil {
			return err
		}
		printArtifacts(cmd.OutOrStdout(), arts)
		return nil
	},
}

// --- search subcommand ---

var artifactsSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Full-text search over generated posts (sqlite store only)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := currentScope()
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		searcher, ok := a.store.(memory.Searcher)
		if !ok {
			return memory.ErrSearchUnsupported
		}
		limit, _ := cmd.Flags().GetInt("limit")
		arts, err := searcher.SearchArtifacts(cmd.Context(), scope, strings.Join(args, " "), limit)
		if errors.Is(err, memory.ErrSearchUnsupported) {
			return fmt.Errorf("%w (store.driver is %s)", err, cfg.Store.Driver)
		}
		if err != nil {
			return err
		}
		printArtifacts(cmd.OutOrStdout(), arts)
		return nil
	},
}

// --- export subcommand ---

var artifactsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active profile and all posts to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, err := currentScope()
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}
		if err := memory.Export(cmd.Context(), a.store, scope, w, memory.ExportFormat(format)); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
		}
		return nil
	},
}

func printArtifacts(w io.Writer, arts []types.GeneratedArtifact) {
	if len(arts) == 0 {
		fmt.Fprintln(w, "No artifacts found.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-19s  %-30s  %s\n", "ID", "Created", "Topic", "Profile")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, a := range arts {
		fmt.Fprintf(w, "%-36s  %-19s  %-30s  %s\n",
			a.ID, a.CreatedAt.Format("2006-01-02 15:04:05"), shorten(a.Topic, 27), a.StyleProfileRef.ID)
	}
	fmt.Fprintf(w, "\n%d artifacts\n", len(arts))
}

func init() {
	artifactsListCmd.Flags().String("topic", "", "only posts with this topic (case-insensitive)")
	artifactsListCmd.Flags().Int("limit", 0, "only the newest N posts (0 = all)")

	artifactsSearchCmd.Flags().Int("limit", 20, "maximum results")

	artifactsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	artifactsExportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	artifactsCmd.AddCommand(artifactsListCmd)
	artifactsCmd.AddCommand(artifactsSearchCmd)
	artifactsCmd.AddCommand(artifactsExportCmd)

	rootCmd.AddCommand(artifactsCmd)
}
