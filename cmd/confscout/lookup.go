// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/confscout/internal/query"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <author>",
	Short: "Show one author's accepted papers",
	Long: `Lookup resolves a single author by name and lists their papers in the
dataset. The name tolerates formatting variants: "Smith, Alice",
"Dr. Alice Smith", and "alice smith" all find the same author.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().Bool("json", false, "emit JSON instead of text")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	asJSON, _ := cmd.Flags().GetBool("json")

	session, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}
	view := query.NewView(session, nil)

	detail, ok := view.Lookup(name)
	if !ok {
		return fmt.Errorf("no author matches %q", name)
	}
	if asJSON {
		return writeJSON(os.Stdout, detail)
	}

	fmt.Fprintf(os.Stdout, "%s — %d paper(s)\n", detail.Name, detail.Count)
	for _, p := range detail.Papers {
		fmt.Fprintf(os.Stdout, "  %s %d  %s\n", p.Venue, p.Year, p.Title)
	}
	return nil
}
