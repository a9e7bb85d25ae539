// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/confscout/internal/fetchpool"
	"github.com/pdiddy/confscout/pkg/types"
)

func init() {
	fetchpool.RetryBaseDelay = time.Millisecond
	fetchpool.CooldownBase = 5 * time.Millisecond
}

type memCache struct {
	records map[types.AuthorKey]*types.ContactRecord
}

func newMemCache() *memCache {
	return &memCache{records: make(map[types.AuthorKey]*types.ContactRecord)}
}

func (c *memCache) ContactFor(key types.AuthorKey) (*types.ContactRecord, bool) {
	rec, ok := c.records[key]
	return rec, ok
}

func (c *memCache) StoreContact(rec *types.ContactRecord) {
	c.records[rec.AuthorKey] = rec
}

func resultLink(title, href string) string {
	return fmt.Sprintf(`<a class="result__a" href="%s">%s</a>`, href, title)
}

// testSite serves a search results page plus the author's homepage.
type testSite struct {
	searchHits  []string
	homepage    string
	searchCalls int
	lastQuery   string
}

func (ts *testSite) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/html/":
			ts.searchCalls++
			ts.lastQuery = r.URL.Query().Get("q")
			fmt.Fprintf(w, "<html><body>%s</body></html>", strings.Join(ts.searchHits, "\n"))
		case "/homepage":
			fmt.Fprint(w, ts.homepage)
		default:
			http.NotFound(w, r)
		}
	}
}

func newTestResolver(t *testing.T, site *testSite, cfg types.ContactConfig) (*Resolver, *memCache) {
	t.Helper()
	server := httptest.NewServer(site.handler())
	t.Cleanup(server.Close)

	prev := searchBase
	searchBase = server.URL + "/html/"
	t.Cleanup(func() { searchBase = prev })

	site.homepage = strings.ReplaceAll(site.homepage, "{{base}}", server.URL)
	for i := range site.searchHits {
		site.searchHits[i] = strings.ReplaceAll(site.searchHits[i], "{{base}}", server.URL)
	}

	pool := fetchpool.New(types.FetchConfig{MaxConcurrency: 2, MaxRetries: 1})
	cache := newMemCache()
	return NewResolver(pool, cache, cfg), cache
}

func TestResolveFindsEmail(t *testing.T) {
	site := &testSite{
		searchHits: []string{
			resultLink("Alice Smith - Stanford University", "{{base}}/homepage"),
			resultLink("Alice Smith | LinkedIn", "https://www.linkedin.com/in/alicesmith"),
			resultLink("Alice Smith - Google Scholar", "https://scholar.google.com/citations?user=abc"),
		},
		homepage: `<html><body>Reach me at Alice.Smith@stanford.edu</body></html>`,
	}
	r, cache := newTestResolver(t, site, types.ContactConfig{})

	rec, err := r.Resolve(context.Background(), Request{
		Key:             "alice smith",
		DisplayName:     "Alice Smith",
		InstitutionHint: "Stanford University",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice.smith@stanford.edu", rec.Email)
	assert.Contains(t, rec.Website, "/homepage")
	assert.Equal(t, "https://www.linkedin.com/in/alicesmith", rec.LinkedIn)
	assert.Equal(t, "https://scholar.google.com/citations?user=abc", rec.ScholarProfile)
	assert.InDelta(t, 1.0, rec.Confidence, 1e-9)
	assert.Contains(t, site.lastQuery, "Stanford University")

	_, cached := cache.ContactFor("alice smith")
	assert.True(t, cached)
}

func TestResolveDeobfuscatesEmail(t *testing.T) {
	site := &testSite{
		searchHits: []string{resultLink("Bob Lee - Google", "{{base}}/homepage")},
		homepage:   `<html><body>bob [at] example [dot] com</body></html>`,
	}
	r, _ := newTestResolver(t, site, types.ContactConfig{})

	rec, err := r.Resolve(context.Background(), Request{Key: "bob lee", DisplayName: "Bob Lee"})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", rec.Email)
}

func TestResolveDecodesRedirectLinks(t *testing.T) {
	site := &testSite{
		searchHits: []string{resultLink("Carol Jones - MIT",
			"//duckduckgo.com/l/?uddg="+url.QueryEscape("{{base}}/homepage"))},
		homepage: `<html><body>carol@mit.edu</body></html>`,
	}
	r, _ := newTestResolver(t, site, types.ContactConfig{})

	rec, err := r.Resolve(context.Background(), Request{Key: "carol jones", DisplayName: "Carol Jones"})
	require.NoError(t, err)
	assert.Equal(t, "carol@mit.edu", rec.Email)
}

func TestResolveNoMatchAboveFloor(t *testing.T) {
	site := &testSite{
		searchHits: []string{resultLink("Totally Unrelated Page", "https://example.com/x")},
	}
	r, _ := newTestResolver(t, site, types.ContactConfig{MinConfidence: 0.6})

	_, err := r.Resolve(context.Background(), Request{Key: "alice smith", DisplayName: "Alice Smith"})
	var resolveErr *types.ResolveError
	require.True(t, errors.As(err, &resolveErr))
	assert.Equal(t, types.ResolveNotFound, resolveErr.Kind)
}

func TestResolveNoSearchResults(t *testing.T) {
	site := &testSite{}
	r, _ := newTestResolver(t, site, types.ContactConfig{})

	_, err := r.Resolve(context.Background(), Request{Key: "alice smith", DisplayName: "Alice Smith"})
	var resolveErr *types.ResolveError
	require.True(t, errors.As(err, &resolveErr))
	assert.Equal(t, types.ResolveNotFound, resolveErr.Kind)
}

func TestResolveMissingEmailStillRecorded(t *testing.T) {
	site := &testSite{
		searchHits: []string{resultLink("Dan Wu - MIT", "{{base}}/homepage")},
		homepage:   `<html><body>No address published.</body></html>`,
	}
	r, cache := newTestResolver(t, site, types.ContactConfig{})

	rec, err := r.Resolve(context.Background(), Request{Key: "dan wu", DisplayName: "Dan Wu"})
	require.NoError(t, err)
	assert.Empty(t, rec.Email)
	assert.Contains(t, rec.Website, "/homepage")

	_, cached := cache.ContactFor("dan wu")
	assert.True(t, cached)
}

func TestResolveUsesCache(t *testing.T) {
	site := &testSite{
		searchHits: []string{resultLink("Alice Smith", "{{base}}/homepage")},
		homepage:   `<html><body>alice@stanford.edu</body></html>`,
	}
	r, _ := newTestResolver(t, site, types.ContactConfig{})

	req := Request{Key: "alice smith", DisplayName: "Alice Smith"}
	_, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, site.searchCalls)
}

func TestResolveBatchPartialSuccess(t *testing.T) {
	site := &testSite{
		searchHits: []string{resultLink("Alice Smith - Stanford", "{{base}}/homepage")},
		homepage:   `<html><body>alice@stanford.edu</body></html>`,
	}
	r, _ := newTestResolver(t, site, types.ContactConfig{MinConfidence: 0.6})

	var out strings.Builder
	res, err := r.ResolveBatch(context.Background(), []Request{
		{Key: "alice smith", DisplayName: "Alice Smith"},
		{Key: "zelda nobody", DisplayName: "Zelda Nobody"},
	}, &out)
	require.NoError(t, err)

	require.Len(t, res.Resolved, 1)
	assert.Equal(t, "alice@stanford.edu", res.Resolved[0].Email)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, types.AuthorKey("zelda nobody"), res.Failed[0].Key)
	assert.Contains(t, out.String(), "resolving Alice Smith")
	assert.Contains(t, out.String(), "failed:")
}

func TestResolveBatchCancelled(t *testing.T) {
	site := &testSite{
		searchHits: []string{resultLink("Alice Smith", "{{base}}/homepage")},
		homepage:   `<html><body>alice@stanford.edu</body></html>`,
	}
	r, _ := newTestResolver(t, site, types.ContactConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	_, err := r.ResolveBatch(ctx, []Request{{Key: "alice smith", DisplayName: "Alice Smith"}}, &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCandidateName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Alice Smith - Stanford University", "Alice Smith"},
		{"Alice Smith | LinkedIn", "Alice Smith"},
		{"Alice Smith: Research", "Alice Smith"},
		{"Alice Smith", "Alice Smith"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, candidateName(tt.title))
	}
}

func TestSearchAPIKeyForwarded(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	prev := searchBase
	searchBase = server.URL + "/"
	defer func() { searchBase = prev }()

	pool := fetchpool.New(types.FetchConfig{MaxConcurrency: 1, MaxRetries: 1})
	r := NewResolver(pool, newMemCache(), types.ContactConfig{SearchAPIKey: "sk-test"})

	_, _ = r.Resolve(context.Background(), Request{Key: "a b", DisplayName: "A B"})
	assert.Equal(t, "sk-test", gotKey)
}
