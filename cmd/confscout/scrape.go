// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/confscout/internal/dataset"
	"github.com/pdiddy/confscout/internal/fetchpool"
	"github.com/pdiddy/confscout/internal/schedule"
	"github.com/pdiddy/confscout/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultParallel  = 500
	defaultUserAgent = "confscout/0.1"
)

var yearsPattern = regexp.MustCompile(`^(\d{4})(?:-(\d{4}))?$`)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape conference schedules into the local dataset",
	Long: `Scrape fetches the poster listings for NeurIPS, ICML, and ICLR over the
requested years, follows each event to its title and speakers, and stores the
resulting paper records in the dataset. Venues skip years before their
archives begin. Papers already in the dataset are kept, so re-scraping is
safe.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("years", "", "year or inclusive range, e.g. 2023 or 2018-2023 (required)")
	scrapeCmd.Flags().StringSlice("venues", nil, "restrict to venues, e.g. neurips,icml (default: all)")
	scrapeCmd.Flags().Int("parallel", defaultParallel, "maximum in-flight requests")
	scrapeCmd.Flags().Float64("rate", 0, "request rate limit in requests/second (0 = unlimited)")
	scrapeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	_ = scrapeCmd.MarkFlagRequired("years")

	rootCmd.AddCommand(scrapeCmd)
}

func parseYears(spec string) (int, int, error) {
	m := yearsPattern.FindStringSubmatch(spec)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid --years %q: want YYYY or YYYY-YYYY", spec)
	}
	start, _ := strconv.Atoi(m[1])
	end := start
	if m[2] != "" {
		end, _ = strconv.Atoi(m[2])
	}

	if start > end {
		return 0, 0, fmt.Errorf("invalid --years %q: start after end", spec)
	}
	if earliest := schedule.EarliestYear(); start < earliest {
		return 0, 0, fmt.Errorf("no venue has archives before %d", earliest)
	}
	if now := time.Now().Year(); end > now {
		return 0, 0, fmt.Errorf("cannot scrape beyond %d", now)
	}
	return start, end, nil
}

// selectVenues maps --venues values to the venue table; empty means all.
func selectVenues(names []string) ([]schedule.Venue, error) {
	if len(names) == 0 {
		return schedule.Venues, nil
	}

	wanted := make(map[types.Venue]struct{}, len(names))
	for _, name := range names {
		v, err := types.ParseVenue(name)
		if err != nil {
			return nil, err
		}
		wanted[v] = struct{}{}
	}

	var out []schedule.Venue
	for _, v := range schedule.Venues {
		if _, ok := wanted[v.Name]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	yearsSpec, _ := cmd.Flags().GetString("years")
	start, end, err := parseYears(yearsSpec)
	if err != nil {
		return err
	}

	venueNames, _ := cmd.Flags().GetStringSlice("venues")
	venues, err := selectVenues(venueNames)
	if err != nil {
		return err
	}

	parallel, _ := cmd.Flags().GetInt("parallel")
	rps, _ := cmd.Flags().GetFloat64("rate")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	store, err := dataset.Open(dataPath())
	if err != nil {
		return err
	}
	defer store.Close()

	pool := fetchpool.New(types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		MaxConcurrency:    parallel,
		RequestsPerSecond: rps,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var total schedule.Stats
	var saved dataset.SaveSummary

	for _, venue := range venues {
		for year := start; year <= end; year++ {
			if year < venue.FirstYear {
				continue
			}
			fmt.Fprintf(os.Stdout, "scraping %s %d\n", venue.Name, year)

			records, stats, err := schedule.ScrapeYear(ctx, pool, venue, year, os.Stdout)
			total.Events += stats.Events
			total.Speakers += stats.Speakers
			total.Failed += stats.Failed
			total.Malformed += stats.Malformed

			// Save whatever came back before deciding whether to abort, so
			// an interrupt keeps partial progress.
			if len(records) > 0 {
				summary, saveErr := store.SaveRecords(context.Background(), records)
				if saveErr != nil {
					return saveErr
				}
				saved.Added += summary.Added
				saved.Skipped += summary.Skipped
			}
			if err != nil {
				fmt.Fprintf(os.Stdout, "stopped: %v (%d papers saved)\n", err, saved.Added)
				return err
			}
		}
	}

	fmt.Fprintf(os.Stdout, "done: %d events, %d speakers, %d failed, %d malformed\n",
		total.Events, total.Speakers, total.Failed, total.Malformed)
	fmt.Fprintf(os.Stdout, "dataset: %d added, %d already present\n", saved.Added, saved.Skipped)

	fetchStats := pool.Stats()
	fmt.Fprintf(os.Stdout, "fetches: %d ok, %d failed, %d retries, %d cooldowns\n",
		fetchStats.Fetched, fetchStats.Failed, fetchStats.Retries, fetchStats.Cooldowns)
	return nil
}
