// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/confscout/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "papers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []types.PaperRecord {
	return []types.PaperRecord{
		{Venue: types.VenueNeurIPS, Year: 2023, Title: "Paper A", Authors: []types.AuthorRef{
			{RawName: "Alice Smith", RawAffiliation: "Stanford University", Position: 0},
			{RawName: "Bob Lee", RawAffiliation: "Google", Position: 1},
		}},
		{Venue: types.VenueICML, Year: 2023, Title: "Paper B", Authors: []types.AuthorRef{
			{RawName: "Carol Jones", RawAffiliation: "", Position: 0},
		}},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	summary, err := s.SaveRecords(ctx, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, SaveSummary{Added: 2}, summary)

	records, err := s.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// ICML sorts before NeurIPS.
	assert.Equal(t, "Paper B", records[0].Title)
	assert.Equal(t, "Paper A", records[1].Title)
	require.Len(t, records[1].Authors, 2)
	assert.Equal(t, "Alice Smith", records[1].Authors[0].RawName)
	assert.Equal(t, "Stanford University", records[1].Authors[0].RawAffiliation)
	assert.Equal(t, 1, records[1].Authors[1].Position)
	assert.Empty(t, records[0].Authors[0].RawAffiliation)
}

func TestSaveRecordsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveRecords(ctx, sampleRecords())
	require.NoError(t, err)

	summary, err := s.SaveRecords(ctx, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, SaveSummary{Skipped: 2}, summary)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCountEmpty(t *testing.T) {
	s := openTestStore(t)
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "papers.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.SaveRecords(context.Background(), sampleRecords())
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPaperWithNoAuthorsLoads(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveRecords(ctx, []types.PaperRecord{
		{Venue: types.VenueICLR, Year: 2024, Title: "Orphan"},
	})
	require.NoError(t, err)

	records, err := s.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Authors)
}
