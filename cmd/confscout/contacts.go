// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/confscout/internal/contact"
	"github.com/pdiddy/confscout/internal/fetchpool"
	"github.com/pdiddy/confscout/internal/query"
	"github.com/pdiddy/confscout/pkg/types"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts <count> [institution]",
	Short: "Resolve contact details for the top authors",
	Long: `Contacts looks up public contact details (homepage, email, LinkedIn,
Google Scholar) for the top authors in the dataset, optionally restricted to
one institution. Large batches ask for confirmation before any network
traffic; --yes skips the prompt.

Authors without a discoverable email are reported but excluded from the
outreach export.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runContacts,
}

func init() {
	contactsCmd.Flags().Float64("min-confidence", 0, "lowest accepted name-match score (default from config, 0.5)")
	contactsCmd.Flags().Bool("yes", false, "skip the batch confirmation prompt")
	contactsCmd.Flags().Bool("json", false, "emit the outreach export as JSON")
	contactsCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(contactsCmd)
}

func runContacts(cmd *cobra.Command, args []string) error {
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		return fmt.Errorf("invalid count %q: want a positive integer", args[0])
	}
	institution := ""
	if len(args) > 1 {
		institution = args[1]
	}

	minConf, _ := cmd.Flags().GetFloat64("min-confidence")
	if minConf <= 0 {
		minConf = viper.GetFloat64("contact.min_confidence")
	}
	skipConfirm, _ := cmd.Flags().GetBool("yes")
	asJSON, _ := cmd.Flags().GetBool("json")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	session, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	pool := fetchpool.New(types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		// Contact lookups fan out per author, not per page; a small bound
		// keeps the search endpoint happy.
		MaxConcurrency: 4,
	})
	resolver := contact.NewResolver(pool, session, types.ContactConfig{
		MinConfidence: minConf,
		SearchAPIKey:  secretDefault("search-api-key", viper.GetString("contact.search_api_key")),
	})
	view := query.NewView(session, resolver)

	plan, err := view.ContactPlan(count, institution)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		return fmt.Errorf("no authors matched the request")
	}

	fmt.Fprintf(os.Stdout, "Will resolve %d author(s):\n", len(plan))
	for _, req := range plan {
		if req.InstitutionHint != "" {
			fmt.Fprintf(os.Stdout, "  %s (%s)\n", req.DisplayName, req.InstitutionHint)
		} else {
			fmt.Fprintf(os.Stdout, "  %s\n", req.DisplayName)
		}
	}

	if !skipConfirm && len(plan) > viper.GetInt("analyze.confirm_threshold") {
		if !confirm(os.Stdout, "Proceed?") {
			fmt.Fprintln(os.Stdout, "aborted")
			return nil
		}
	}

	result, err := view.GetContacts(cmd.Context(), plan, os.Stdout)
	if err != nil {
		return err
	}

	entries := view.OutreachExport(result.Resolved, os.Stdout)

	if asJSON {
		return writeJSON(os.Stdout, entries)
	}

	fmt.Fprintf(os.Stdout, "\nOutreach list (%d of %d resolved):\n", len(entries), len(plan))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "  %s <%s>", e.Contact.DisplayName, e.Contact.Email)
		if e.Contact.Website != "" {
			fmt.Fprintf(os.Stdout, "  %s", e.Contact.Website)
		}
		fmt.Fprintf(os.Stdout, "  (%d paper(s), resolved %s)\n",
			len(e.Papers), e.Contact.ResolvedAt.Format(time.RFC3339))
	}
	for _, f := range result.Failed {
		fmt.Fprintf(os.Stdout, "  unresolved: %s (%s)\n", f.Key, f.Reason)
	}
	return nil
}

func confirm(w *os.File, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
