// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/pdiddy/confscout/internal/aggregate"
	"github.com/pdiddy/confscout/internal/dataset"
	"github.com/pdiddy/confscout/internal/identity"
	"github.com/pdiddy/confscout/internal/query"
)

// loadSession builds an in-memory session from the stored dataset, applying
// the alias file from config when one is set.
func loadSession(ctx context.Context) (*aggregate.Session, error) {
	norm := identity.NewNormalizer()
	if aliasFile := viper.GetString("analyze.alias_file"); aliasFile != "" {
		if err := norm.LoadAliases(aliasFile); err != nil {
			return nil, err
		}
	}

	store, err := dataset.Open(dataPath())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	records, err := store.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s is empty: run scrape first", dataPath())
	}

	session := aggregate.NewSession(norm)
	session.Ingest(records)
	return session, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRows renders one leaderboard, either as aligned text or JSON.
func printRows(w io.Writer, title string, rows []query.Row, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintf(w, "%s\n", title)
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}
	for i, row := range rows {
		fmt.Fprintf(w, "  %2d. %-40s %d\n", i+1, row.Name, row.Count)
	}
	return nil
}
