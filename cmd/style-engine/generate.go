// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/style-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic...>",
	Short: "Write a blog post on a topic in the stored writing style",
	Long: `Generate writes a new blog post about the topic, conditioned on the
scope's active style profile, prints it, and records it as an artifact.

Use --output to also write the post to a file (.txt and .md are written
as Markdown, .html is rendered), or --save to write it to
blog_post_<topic>.txt in the current directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	scope, err := currentScope()
	if err != nil {
		return err
	}
	topic := strings.Join(args, " ")

	ctx := cmd.Context()
	a, err := openApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.pipeline.Generate(ctx, scope, topic)
	if errors.Is(err, types.ErrNoActiveProfile) {
		return fmt.Errorf("no writing style profile found for scope %q: run \"style-engine analyze <file>\" first", scope)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Artifact.Content)

	output, _ := cmd.Flags().GetString("output")
	if save, _ := cmd.Flags().GetBool("save"); save && output == "" {
		output = downloadName(res.Artifact.Topic)
	}
	if output != "" {
		if err := writeContent(output, res.Artifact.Content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
	}

	if res.PersistErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: could not save to memory: %v\n", res.PersistErr)
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Blog post saved to memory (artifact %s).\n", res.Artifact.ID)
	return nil
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "also write the post to this file (.txt, .md, or .html)")
	generateCmd.Flags().Bool("save", false, "write the post to blog_post_<topic>.txt")

	rootCmd.AddCommand(generateCmd)
}
