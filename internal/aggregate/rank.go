// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"
	"strings"

	"github.com/pdiddy/confscout/pkg/types"
)

// TopAuthors returns up to n authors by descending paper count, ties broken
// by display name ascending. n <= 0 means all. When instFilter is non-empty
// only authors affiliated with that institution key are considered.
func (s *Session) TopAuthors(n int, instFilter types.InstitutionKey) []AuthorEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AuthorEntry, 0, len(s.authors))
	for _, entry := range s.authors {
		if instFilter != "" {
			if _, ok := entry.Institutions[instFilter]; !ok {
				continue
			}
		}
		out = append(out, copyAuthor(entry))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PaperCount != out[j].PaperCount {
			return out[i].PaperCount > out[j].PaperCount
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopInstitutions returns up to n institutions by descending paper count,
// ties broken by display name ascending. n <= 0 means all.
func (s *Session) TopInstitutions(n int) []InstitutionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]InstitutionEntry, 0, len(s.institutions))
	for _, entry := range s.institutions {
		out = append(out, copyInstitution(entry))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PaperCount != out[j].PaperCount {
			return out[i].PaperCount > out[j].PaperCount
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// FindAuthor resolves a user-typed author name to its entry by normalizing
// the query to a key.
func (s *Session) FindAuthor(query string) (AuthorEntry, bool) {
	return s.Lookup(s.norm.NormalizeAuthor(query))
}

// FindInstitution resolves a user-typed institution query to a known entry.
// An exact key match wins; otherwise the highest-count institution whose key
// contains the normalized query as a substring is returned.
func (s *Session) FindInstitution(query string) (InstitutionEntry, bool) {
	needle := string(s.norm.NormalizeInstitution(query))
	if needle == "" {
		return InstitutionEntry{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.institutions[types.InstitutionKey(needle)]; ok {
		return copyInstitution(entry), true
	}

	var best *InstitutionEntry
	for _, entry := range s.institutions {
		if !strings.Contains(string(entry.Key), needle) {
			continue
		}
		if best == nil || entry.PaperCount > best.PaperCount ||
			(entry.PaperCount == best.PaperCount && entry.DisplayName < best.DisplayName) {
			best = entry
		}
	}
	if best == nil {
		return InstitutionEntry{}, false
	}
	return copyInstitution(best), true
}
