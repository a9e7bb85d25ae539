// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"sort"

	"github.com/pdiddy/confscout/pkg/types"
)

// GroupEntry is one research group: a connected component of the
// co-authorship graph restricted to edges at or above the weight threshold.
type GroupEntry struct {
	// DisplayName is the most prolific member plus the size of the rest of
	// the group, e.g. "Alice Smith +3".
	DisplayName string
	Members     []types.AuthorKey
	// PaperCount is the number of distinct papers any member appears on.
	PaperCount int
}

// TopGroups returns up to n groups by descending distinct paper count, ties
// broken by display name. Authors with no qualifying edge form no group;
// threshold is the minimum number of shared papers for an edge to count.
// n <= 0 means all.
func (s *Session) TopGroups(n, threshold int) []GroupEntry {
	if threshold < 1 {
		threshold = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parent := make(map[types.AuthorKey]types.AuthorKey)
	var find func(types.AuthorKey) types.AuthorKey
	find = func(k types.AuthorKey) types.AuthorKey {
		if parent[k] != k {
			parent[k] = find(parent[k])
		}
		return parent[k]
	}
	union := func(a, b types.AuthorKey) {
		if _, ok := parent[a]; !ok {
			parent[a] = a
		}
		if _, ok := parent[b]; !ok {
			parent[b] = b
		}
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for ek, weight := range s.edges {
		if weight >= threshold {
			union(ek.lo, ek.hi)
		}
	}

	components := make(map[types.AuthorKey][]types.AuthorKey)
	for k := range parent {
		root := find(k)
		components[root] = append(components[root], k)
	}

	out := make([]GroupEntry, 0, len(components))
	for _, members := range components {
		if len(members) < 2 {
			continue
		}

		papers := make(map[string]struct{})
		leader, leaderCount := types.AuthorKey(""), -1
		for _, m := range members {
			for _, rec := range s.papers[m] {
				papers[rec.Key()] = struct{}{}
			}
			entry := s.authors[m]
			if entry == nil {
				continue
			}
			if entry.PaperCount > leaderCount ||
				(entry.PaperCount == leaderCount && entry.DisplayName < s.authors[leader].DisplayName) {
				leader, leaderCount = m, entry.PaperCount
			}
		}

		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		out = append(out, GroupEntry{
			DisplayName: fmt.Sprintf("%s +%d", s.authors[leader].DisplayName, len(members)-1),
			Members:     members,
			PaperCount:  len(papers),
		})
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
