// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/confscout/internal/query"
)

var fromCmd = &cobra.Command{
	Use:   "from <institution>",
	Short: "Show top authors from one institution",
	Long: `From prints the author leaderboard restricted to one institution. The
query tolerates abbreviations and spelling variants: "MIT", "Stanford
Univ.", and "stanford" all resolve.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFrom,
}

func init() {
	fromCmd.Flags().Int("top", 0, "leaderboard length (default from config, 10)")
	fromCmd.Flags().Bool("json", false, "emit JSON instead of text")

	rootCmd.AddCommand(fromCmd)
}

func runFrom(cmd *cobra.Command, args []string) error {
	institution := strings.Join(args, " ")
	top, _ := cmd.Flags().GetInt("top")
	if top <= 0 {
		top = viper.GetInt("analyze.top_n")
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	session, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}
	view := query.NewView(session, nil)

	rows, displayName, ok := view.AuthorsFrom(institution, top)
	if !ok {
		return fmt.Errorf("no institution matches %q", institution)
	}
	return printRows(os.Stdout, "Top authors at "+displayName, rows, asJSON)
}
