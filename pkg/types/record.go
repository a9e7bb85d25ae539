// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model for the scrape and analysis
// pipeline: paper records, canonical identity keys, contact records, the
// error taxonomy, and stage configuration.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Venue is one of the supported academic conferences.
type Venue string

const (
	VenueNeurIPS Venue = "NeurIPS"
	VenueICML    Venue = "ICML"
	VenueICLR    Venue = "ICLR"
)

// ParseVenue maps a case-insensitive venue name to its canonical value.
func ParseVenue(s string) (Venue, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "neurips", "nips":
		return VenueNeurIPS, nil
	case "icml":
		return VenueICML, nil
	case "iclr":
		return VenueICLR, nil
	}
	return "", fmt.Errorf("unknown venue %q: expected NeurIPS, ICML, or ICLR", s)
}

// AuthorKey is the canonical identity string for an author, produced by the
// identity normalizer. Normalization is deterministic and idempotent.
type AuthorKey string

// InstitutionKey is the canonical identity string for an institution.
type InstitutionKey string

// AuthorRef is one author slot on a paper as harvested from the source page.
// It exists only embedded in a PaperRecord.
type AuthorRef struct {
	// RawName is the author name exactly as it appeared on the page.
	RawName string `json:"raw_name" yaml:"raw_name"`

	// RawAffiliation is the affiliation string from the speaker page.
	// Empty when the source page carried no affiliation.
	RawAffiliation string `json:"raw_affiliation" yaml:"raw_affiliation"`

	// Position is the zero-based index in the paper's author list.
	Position int `json:"position" yaml:"position"`
}

// PaperRecord holds one published paper's metadata as harvested from a
// source page. Records are immutable once built; re-scrapes are
// deduplicated on (venue, year, title).
type PaperRecord struct {
	Venue   Venue       `json:"venue" yaml:"venue"`
	Year    int         `json:"year" yaml:"year"`
	Title   string      `json:"title" yaml:"title"`
	Authors []AuthorRef `json:"authors" yaml:"authors"`
}

// Key returns the dedup key for the record.
func (r PaperRecord) Key() string {
	return fmt.Sprintf("%s|%d|%s", r.Venue, r.Year, strings.TrimSpace(r.Title))
}

// ContactRecord holds the contact fields recovered for one author by the
// contact resolver. All lookup fields are optional; Confidence records how
// well the chosen candidate matched the author.
type ContactRecord struct {
	AuthorKey      AuthorKey `json:"author_key" yaml:"author_key"`
	DisplayName    string    `json:"display_name" yaml:"display_name"`
	Website        string    `json:"website,omitempty" yaml:"website,omitempty"`
	LinkedIn       string    `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	ScholarProfile string    `json:"scholar_profile,omitempty" yaml:"scholar_profile,omitempty"`
	Email          string    `json:"email,omitempty" yaml:"email,omitempty"`
	Confidence     float64   `json:"confidence" yaml:"confidence"`
	ResolvedAt     time.Time `json:"resolved_at" yaml:"resolved_at"`
}
