// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query adapts session state into the shapes the CLI prints:
// leaderboard rows, contact plans, and the outreach export. It owns no state
// of its own; everything reads through the aggregate session.
package query

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/confscout/internal/aggregate"
	"github.com/pdiddy/confscout/internal/contact"
	"github.com/pdiddy/confscout/pkg/types"
)

// Row is one leaderboard line.
type Row struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// View exposes read-side queries over one session.
type View struct {
	session  *aggregate.Session
	resolver *contact.Resolver
}

// NewView wires a view over session. resolver may be nil when contact
// operations are not needed.
func NewView(session *aggregate.Session, resolver *contact.Resolver) *View {
	return &View{session: session, resolver: resolver}
}

// TopAuthors returns the top-n author leaderboard. n <= 0 means all.
func (v *View) TopAuthors(n int) []Row {
	entries := v.session.TopAuthors(n, "")
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Name: e.DisplayName, Count: e.PaperCount}
	}
	return rows
}

// TopInstitutions returns the top-n institution leaderboard. n <= 0 means
// all.
func (v *View) TopInstitutions(n int) []Row {
	entries := v.session.TopInstitutions(n)
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Name: e.DisplayName, Count: e.PaperCount}
	}
	return rows
}

// TopGroups returns the top-n research-group leaderboard; threshold is the
// minimum shared-paper count for a co-authorship edge.
func (v *View) TopGroups(n, threshold int) []Row {
	entries := v.session.TopGroups(n, threshold)
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Name: e.DisplayName, Count: e.PaperCount}
	}
	return rows
}

// AuthorsFrom returns the author leaderboard restricted to one institution,
// resolved from a user-typed query. The second return is the institution's
// display name; ok is false when nothing matches.
func (v *View) AuthorsFrom(institution string, n int) ([]Row, string, bool) {
	inst, ok := v.session.FindInstitution(institution)
	if !ok {
		return nil, "", false
	}
	entries := v.session.TopAuthors(n, inst.Key)
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Name: e.DisplayName, Count: e.PaperCount}
	}
	return rows, inst.DisplayName, true
}

// AuthorDetail is one author's full record: aggregate entry plus papers.
type AuthorDetail struct {
	Name   string              `json:"name"`
	Count  int                 `json:"count"`
	Papers []types.PaperRecord `json:"papers"`
}

// Lookup resolves a user-typed author name to their papers.
func (v *View) Lookup(name string) (AuthorDetail, bool) {
	entry, ok := v.session.FindAuthor(name)
	if !ok {
		return AuthorDetail{}, false
	}
	return AuthorDetail{
		Name:   entry.DisplayName,
		Count:  entry.PaperCount,
		Papers: v.session.PapersOf(entry.Key),
	}, true
}

// ContactPlan builds the resolution plan for the top-k authors, optionally
// restricted to one institution. Callers show the plan for confirmation
// before executing it.
func (v *View) ContactPlan(k int, institution string) ([]contact.Request, error) {
	var filter types.InstitutionKey
	if institution != "" {
		inst, ok := v.session.FindInstitution(institution)
		if !ok {
			return nil, fmt.Errorf("no institution matches %q", institution)
		}
		filter = inst.Key
	}

	entries := v.session.TopAuthors(k, filter)
	reqs := make([]contact.Request, len(entries))
	for i, e := range entries {
		reqs[i] = contact.Request{
			Key:             e.Key,
			DisplayName:     e.DisplayName,
			InstitutionHint: v.session.InstitutionHint(e.Key),
		}
	}
	return reqs, nil
}

// GetContacts executes a plan, writing per-author progress to w.
func (v *View) GetContacts(ctx context.Context, plan []contact.Request, w io.Writer) (contact.BatchResult, error) {
	if v.resolver == nil {
		return contact.BatchResult{}, fmt.Errorf("contact resolution is not configured")
	}
	return v.resolver.ResolveBatch(ctx, plan, w)
}

// OutreachEntry pairs a resolved contact with the papers that justified it.
type OutreachEntry struct {
	Contact types.ContactRecord `json:"contact"`
	Papers  []types.PaperRecord `json:"papers"`
}

// OutreachExport assembles the outreach list from resolved contacts.
// Contacts without an email are dropped with a warning line on w.
func (v *View) OutreachExport(resolved []*types.ContactRecord, w io.Writer) []OutreachEntry {
	var out []OutreachEntry
	for _, rec := range resolved {
		if rec.Email == "" {
			fmt.Fprintf(w, "skipping %s: no email found\n", rec.DisplayName)
			continue
		}
		out = append(out, OutreachEntry{
			Contact: *rec,
			Papers:  v.session.PapersOf(rec.AuthorKey),
		})
	}
	return out
}
