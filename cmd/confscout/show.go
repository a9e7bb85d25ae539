// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/confscout/internal/query"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show author, institution, and group leaderboards",
	Long: `Show prints three leaderboards over the scraped dataset: authors by
accepted-paper count, institutions by member paper count, and publishing
groups (connected co-authorship clusters) by distinct paper count.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().Int("top", 0, "leaderboard length (default from config, 10)")
	showCmd.Flags().Int("group-threshold", 0, "minimum shared papers for a group edge (default from config, 2)")
	showCmd.Flags().Bool("json", false, "emit JSON instead of text")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	top, _ := cmd.Flags().GetInt("top")
	if top <= 0 {
		top = viper.GetInt("analyze.top_n")
	}
	threshold, _ := cmd.Flags().GetInt("group-threshold")
	if threshold <= 0 {
		threshold = viper.GetInt("analyze.group_threshold")
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	session, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}
	view := query.NewView(session, nil)

	if asJSON {
		out := struct {
			Authors      []query.Row `json:"authors"`
			Institutions []query.Row `json:"institutions"`
			Groups       []query.Row `json:"groups"`
		}{
			Authors:      view.TopAuthors(top),
			Institutions: view.TopInstitutions(top),
			Groups:       view.TopGroups(top, threshold),
		}
		return writeJSON(os.Stdout, out)
	}

	if err := printRows(os.Stdout, "Top authors", view.TopAuthors(top), false); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	if err := printRows(os.Stdout, "Top institutions", view.TopInstitutions(top), false); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	return printRows(os.Stdout, "Top groups", view.TopGroups(top, threshold), false)
}
