// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/confscout/internal/fetchpool"
	"github.com/pdiddy/confscout/pkg/types"
)

// Stats holds per-venue-year scrape counters. Failed and malformed pages are
// counted but never abort the run.
type Stats struct {
	Events    int
	Speakers  int
	Failed    int
	Malformed int
}

// Total returns the number of detail pages processed.
func (s Stats) Total() int {
	return s.Events + s.Speakers + s.Failed + s.Malformed
}

// ScrapeYear scrapes one venue's schedule for one year: the listing page,
// then every poster event page, then every referenced speaker page, all
// through the shared pool. Per-page failures are reported to w and skipped.
// On cancellation the records assembled so far are returned alongside the
// context error so callers can keep partial results.
func ScrapeYear(ctx context.Context, pool *fetchpool.Pool, v Venue, year int, w io.Writer) ([]types.PaperRecord, Stats, error) {
	var stats Stats

	listingURL := v.ScheduleURL(year)
	listing, err := pool.Fetch(ctx, listingURL)
	if err != nil {
		return nil, stats, fmt.Errorf("fetching %s %d schedule: %w", v.Name, year, err)
	}

	eventIDs, err := ParseEventIDs(listingURL, listing)
	if err != nil {
		return nil, stats, err
	}
	if len(eventIDs) == 0 {
		fmt.Fprintf(w, "%s %d: no poster events\n", v.Name, year)
		return nil, stats, nil
	}

	// Fan out over event pages.
	eventURLs := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		eventURLs[i] = v.EventURL(year, id)
	}

	type event struct {
		title    string
		speakers []SpeakerRef
	}
	var events []event
	speakerIDs := make(map[string]string) // id → name, for the speaker fan-out

	for res := range pool.FetchAll(ctx, eventURLs) {
		if res.Err != nil {
			stats.Failed++
			fmt.Fprintf(w, "  warning: %v\n", res.Err)
			continue
		}
		title, speakers, parseErr := ParseEvent(res.URL, res.Body)
		if parseErr != nil {
			stats.Malformed++
			fmt.Fprintf(w, "  warning: %v\n", parseErr)
			continue
		}
		stats.Events++
		events = append(events, event{title: title, speakers: speakers})
		for _, sp := range speakers {
			speakerIDs[sp.ID] = sp.Name
		}
	}

	// Fan out over speaker pages to recover affiliations, keyed by the
	// displayed name the event pages reference.
	speakerURLs := make([]string, 0, len(speakerIDs))
	for id := range speakerIDs {
		speakerURLs = append(speakerURLs, v.SpeakerURL(year, id))
	}

	affiliations := make(map[string]string)
	for res := range pool.FetchAll(ctx, speakerURLs) {
		if res.Err != nil {
			stats.Failed++
			fmt.Fprintf(w, "  warning: %v\n", res.Err)
			continue
		}
		name, affiliation, parseErr := ParseSpeaker(res.URL, res.Body)
		if parseErr != nil {
			stats.Malformed++
			fmt.Fprintf(w, "  warning: %v\n", parseErr)
			continue
		}
		stats.Speakers++
		affiliations[name] = affiliation
	}

	records := make([]types.PaperRecord, 0, len(events))
	for _, ev := range events {
		rec := types.PaperRecord{
			Venue: v.Name,
			Year:  year,
			Title: ev.title,
		}
		for i, sp := range ev.speakers {
			rec.Authors = append(rec.Authors, types.AuthorRef{
				RawName:        sp.Name,
				RawAffiliation: affiliations[sp.Name],
				Position:       i,
			})
		}
		records = append(records, rec)
	}

	return records, stats, ctx.Err()
}
