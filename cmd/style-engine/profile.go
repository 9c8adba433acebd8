// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/style-engine/internal/session"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the active writing style profile for the scope",
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

		st, err := a.pipeline.Status(cmd.Context(), scope)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		if st.State == session.StateNoProfile {
			fmt.Fprintln(out, "No writing style profile")
			fmt.Fprintln(out, "Run \"style-engine analyze <file>\" to get started.")
			return nil
		}
		fmt.Fprintln(out, "Writing style profile found")
		fmt.Fprintf(out, "  ID:        %s\n", st.Profile.ID)
		fmt.Fprintf(out, "  Created:   %s\n", st.Profile.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		printProfile(out, *st.Profile)
		fmt.Fprintln(out, "You can now generate content with \"style-engine generate <topic>\".")
		return nil
	},
}

func init() {
	profileCmd.Flags().Bool("json", false, "print the status as JSON")

	rootCmd.AddCommand(profileCmd)
}
