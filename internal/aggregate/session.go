// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate owns the per-session ranking state: author and
// institution indices built incrementally from paper records, the
// co-authorship graph, and the contact cache. All mutation is serialized
// behind the session mutex; readers get copies. Sessions are independent, so
// parallel scrapes and tests never interfere.
package aggregate

import (
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/confscout/internal/identity"
	"github.com/pdiddy/confscout/pkg/types"
)

// AuthorEntry is the aggregate view of one canonical author.
type AuthorEntry struct {
	Key          types.AuthorKey
	DisplayName  string
	PaperCount   int
	Institutions map[types.InstitutionKey]struct{}
	CoAuthors    map[types.AuthorKey]struct{}
}

// InstitutionEntry is the aggregate view of one canonical institution.
// PaperCount sums over member authors, so a paper co-authored by two people
// from the same institution counts twice. That double-counting is the
// documented counting convention, not a bug.
type InstitutionEntry struct {
	Key         types.InstitutionKey
	DisplayName string
	Authors     map[types.AuthorKey]struct{}
	PaperCount  int
}

// edgeKey identifies an undirected co-authorship edge; lo < hi.
type edgeKey struct {
	lo, hi types.AuthorKey
}

func makeEdge(a, b types.AuthorKey) edgeKey {
	if a < b {
		return edgeKey{lo: a, hi: b}
	}
	return edgeKey{lo: b, hi: a}
}

// Session owns all aggregation state for one scrape-and-analyze run.
type Session struct {
	mu   sync.Mutex
	norm *identity.Normalizer

	seen         map[string]struct{}
	authors      map[types.AuthorKey]*AuthorEntry
	institutions map[types.InstitutionKey]*InstitutionEntry
	edges        map[edgeKey]int
	papers       map[types.AuthorKey][]types.PaperRecord
	contacts     map[types.AuthorKey]*types.ContactRecord
}

// NewSession creates an empty session using norm for identity keys.
func NewSession(norm *identity.Normalizer) *Session {
	return &Session{
		norm:         norm,
		seen:         make(map[string]struct{}),
		authors:      make(map[types.AuthorKey]*AuthorEntry),
		institutions: make(map[types.InstitutionKey]*InstitutionEntry),
		edges:        make(map[edgeKey]int),
		papers:       make(map[types.AuthorKey][]types.PaperRecord),
		contacts:     make(map[types.AuthorKey]*types.ContactRecord),
	}
}

// IngestResult summarizes one Ingest call.
type IngestResult struct {
	Added   int
	Skipped int
}

// Ingest folds records into the indices. Records whose (venue, year, title)
// key was already ingested are skipped, which makes Ingest idempotent under
// re-scrapes and retries. Safe for concurrent callers; mutation is
// serialized internally.
func (s *Session) Ingest(records []types.PaperRecord) IngestResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res IngestResult
	for _, rec := range records {
		key := rec.Key()
		if _, dup := s.seen[key]; dup {
			res.Skipped++
			continue
		}
		s.seen[key] = struct{}{}
		s.ingestRecord(rec)
		res.Added++
	}
	return res
}

func (s *Session) ingestRecord(rec types.PaperRecord) {
	// Distinct author keys on this paper, in author-list order. The same
	// person listed twice counts once.
	var keys []types.AuthorKey
	perPaper := make(map[types.AuthorKey]struct{})

	for _, ref := range rec.Authors {
		akey := s.norm.NormalizeAuthor(ref.RawName)
		if akey == "" {
			continue
		}
		if _, dup := perPaper[akey]; dup {
			continue
		}
		perPaper[akey] = struct{}{}
		keys = append(keys, akey)

		entry, ok := s.authors[akey]
		if !ok {
			entry = &AuthorEntry{
				Key:          akey,
				DisplayName:  strings.TrimSpace(ref.RawName),
				Institutions: make(map[types.InstitutionKey]struct{}),
				CoAuthors:    make(map[types.AuthorKey]struct{}),
			}
			s.authors[akey] = entry
		}
		entry.PaperCount++
		s.papers[akey] = append(s.papers[akey], rec)

		if ref.RawAffiliation != "" {
			ikey := s.norm.NormalizeInstitution(ref.RawAffiliation)
			if ikey != "" {
				entry.Institutions[ikey] = struct{}{}

				inst, ok := s.institutions[ikey]
				if !ok {
					inst = &InstitutionEntry{
						Key:         ikey,
						DisplayName: strings.TrimSpace(ref.RawAffiliation),
						Authors:     make(map[types.AuthorKey]struct{}),
					}
					s.institutions[ikey] = inst
				}
				inst.Authors[akey] = struct{}{}
				inst.PaperCount++
			}
		}
	}

	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			s.edges[makeEdge(keys[i], keys[j])]++
			s.authors[keys[i]].CoAuthors[keys[j]] = struct{}{}
			s.authors[keys[j]].CoAuthors[keys[i]] = struct{}{}
		}
	}
}

// MergeAuthors folds src into dst after an external decision that the two
// keys denote one person. Paper counts are recomputed from the union of
// paper keys so shared papers are not double-counted.
func (s *Session) MergeAuthors(dst, src types.AuthorKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, okD := s.authors[dst]
	sr, okS := s.authors[src]
	if !okD || !okS || dst == src {
		return false
	}

	union := make(map[string]types.PaperRecord)
	for _, rec := range s.papers[dst] {
		union[rec.Key()] = rec
	}
	for _, rec := range s.papers[src] {
		union[rec.Key()] = rec
	}
	merged := make([]types.PaperRecord, 0, len(union))
	for _, rec := range union {
		merged = append(merged, rec)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Key() < merged[j].Key() })
	s.papers[dst] = merged
	delete(s.papers, src)
	d.PaperCount = len(merged)

	for ik := range sr.Institutions {
		d.Institutions[ik] = struct{}{}
		if inst, ok := s.institutions[ik]; ok {
			delete(inst.Authors, src)
			inst.Authors[dst] = struct{}{}
		}
	}
	for ck := range sr.CoAuthors {
		if ck != dst {
			d.CoAuthors[ck] = struct{}{}
		}
	}
	delete(d.CoAuthors, src)

	// Re-point co-authorship edges from src to dst.
	for ek, weight := range s.edges {
		if ek.lo != src && ek.hi != src {
			continue
		}
		delete(s.edges, ek)
		other := ek.lo
		if other == src {
			other = ek.hi
		}
		if other == dst {
			continue
		}
		s.edges[makeEdge(dst, other)] += weight
		if o, ok := s.authors[other]; ok {
			delete(o.CoAuthors, src)
			o.CoAuthors[dst] = struct{}{}
		}
	}

	delete(s.authors, src)
	return true
}

// Lookup returns a copy of the entry for key.
func (s *Session) Lookup(key types.AuthorKey) (AuthorEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.authors[key]
	if !ok {
		return AuthorEntry{}, false
	}
	return copyAuthor(entry), true
}

// PapersOf returns the papers ingested for one author.
func (s *Session) PapersOf(key types.AuthorKey) []types.PaperRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.papers[key]
	out := make([]types.PaperRecord, len(recs))
	copy(out, recs)
	return out
}

// InstitutionHint returns the author's most frequent raw affiliation string,
// used to disambiguate contact searches. Empty when nothing is known.
func (s *Session) InstitutionHint(key types.AuthorKey) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, rec := range s.papers[key] {
		for _, ref := range rec.Authors {
			if s.norm.NormalizeAuthor(ref.RawName) == key && ref.RawAffiliation != "" {
				counts[strings.TrimSpace(ref.RawAffiliation)]++
			}
		}
	}

	best, bestCount := "", 0
	for aff, c := range counts {
		if c > bestCount || (c == bestCount && aff < best) {
			best, bestCount = aff, c
		}
	}
	return best
}

// ContactFor returns the cached contact record for key, if any.
func (s *Session) ContactFor(key types.AuthorKey) (*types.ContactRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.contacts[key]
	return rec, ok
}

// StoreContact caches a resolved contact record for the session's lifetime.
func (s *Session) StoreContact(rec *types.ContactRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[rec.AuthorKey] = rec
}

func copyAuthor(e *AuthorEntry) AuthorEntry {
	out := AuthorEntry{
		Key:          e.Key,
		DisplayName:  e.DisplayName,
		PaperCount:   e.PaperCount,
		Institutions: make(map[types.InstitutionKey]struct{}, len(e.Institutions)),
		CoAuthors:    make(map[types.AuthorKey]struct{}, len(e.CoAuthors)),
	}
	for k := range e.Institutions {
		out.Institutions[k] = struct{}{}
	}
	for k := range e.CoAuthors {
		out.CoAuthors[k] = struct{}{}
	}
	return out
}

func copyInstitution(e *InstitutionEntry) InstitutionEntry {
	out := InstitutionEntry{
		Key:         e.Key,
		DisplayName: e.DisplayName,
		PaperCount:  e.PaperCount,
		Authors:     make(map[types.AuthorKey]struct{}, len(e.Authors)),
	}
	for k := range e.Authors {
		out.Authors[k] = struct{}{}
	}
	return out
}
