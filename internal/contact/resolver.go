// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package contact resolves public contact details for ranked authors: a web
// search scoped by name and institution, fuzzy matching of result titles
// against the author's name, then a fetch of the best candidate's page to
// extract an email address. Results are cached in the caller's session so an
// author is never resolved twice in one run.
package contact

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/confscout/internal/fetchpool"
	"github.com/pdiddy/confscout/internal/identity"
	"github.com/pdiddy/confscout/pkg/types"
)

// searchBase is the HTML search endpoint. Overridden in tests.
var searchBase = "https://html.duckduckgo.com/html/"

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Cache stores resolved contacts for the lifetime of a session. The
// aggregator's session satisfies it.
type Cache interface {
	ContactFor(key types.AuthorKey) (*types.ContactRecord, bool)
	StoreContact(rec *types.ContactRecord)
}

// Request identifies one author to resolve.
type Request struct {
	Key         types.AuthorKey
	DisplayName string
	// InstitutionHint narrows the search, typically the author's most
	// frequent raw affiliation.
	InstitutionHint string
}

// Failure records one author that could not be resolved.
type Failure struct {
	Key    types.AuthorKey
	Reason string
}

// BatchResult is the outcome of ResolveBatch. Partial success is normal;
// failures carry the reason per author.
type BatchResult struct {
	Resolved []*types.ContactRecord
	Failed   []Failure
}

// Resolver finds contact details through the shared fetch pool, so search
// and page fetches observe the same rate limits as scraping.
type Resolver struct {
	pool          *fetchpool.Pool
	cache         Cache
	minConfidence float64
	maxResults    int
	apiKey        string
}

// NewResolver builds a resolver. Zero-valued config fields fall back to a
// 0.5 confidence floor and 5 search results per author.
func NewResolver(pool *fetchpool.Pool, cache Cache, cfg types.ContactConfig) *Resolver {
	minConf := cfg.MinConfidence
	if minConf <= 0 {
		minConf = 0.5
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Resolver{
		pool:          pool,
		cache:         cache,
		minConfidence: minConf,
		maxResults:    maxResults,
		apiKey:        cfg.SearchAPIKey,
	}
}

// Resolve finds contact details for one author. Cached records are returned
// without touching the network. A missing email is not an error: the record
// still carries the profile links found.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*types.ContactRecord, error) {
	if rec, ok := r.cache.ContactFor(req.Key); ok {
		return rec, nil
	}

	hits, err := r.search(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		return nil, &types.ResolveError{
			Kind:      types.ResolveNotFound,
			AuthorKey: req.Key,
			Err:       fmt.Errorf("no search results for %q", req.DisplayName),
		}
	}

	best, confidence := r.pickCandidate(req.DisplayName, hits)
	if best == nil {
		return nil, &types.ResolveError{
			Kind:      types.ResolveNotFound,
			AuthorKey: req.Key,
			Err:       fmt.Errorf("no search result matched %q above %.2f", req.DisplayName, r.minConfidence),
		}
	}

	rec := &types.ContactRecord{
		AuthorKey:   req.Key,
		DisplayName: req.DisplayName,
		Confidence:  confidence,
		ResolvedAt:  time.Now().UTC(),
	}
	classifyLink(rec, best.href)
	for _, hit := range hits {
		if hit != best {
			classifyProfile(rec, hit.href)
		}
	}

	if rec.Website != "" {
		if email := r.extractEmail(ctx, rec.Website); email != "" {
			rec.Email = email
		}
	}

	r.cache.StoreContact(rec)
	return rec, nil
}

// ResolveBatch resolves each request in order, writing progress to w. One
// author failing never aborts the batch; a cancelled context does.
func (r *Resolver) ResolveBatch(ctx context.Context, reqs []Request, w io.Writer) (BatchResult, error) {
	var res BatchResult
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		fmt.Fprintf(w, "[%d/%d] resolving %s\n", i+1, len(reqs), req.DisplayName)

		rec, err := r.Resolve(ctx, req)
		if err != nil {
			fmt.Fprintf(w, "  failed: %v\n", err)
			res.Failed = append(res.Failed, Failure{Key: req.Key, Reason: err.Error()})
			continue
		}
		if rec.Email != "" {
			fmt.Fprintf(w, "  found %s (confidence %.2f)\n", rec.Email, rec.Confidence)
		} else {
			fmt.Fprintf(w, "  no email on %s (confidence %.2f)\n", rec.Website, rec.Confidence)
		}
		res.Resolved = append(res.Resolved, rec)
	}
	return res, nil
}

type searchHit struct {
	title string
	href  string
}

func (r *Resolver) search(ctx context.Context, req Request) ([]*searchHit, error) {
	query := req.DisplayName + " contact information"
	if req.InstitutionHint != "" {
		query = req.DisplayName + " " + req.InstitutionHint + " contact information"
	}

	params := url.Values{"q": {query}}
	if r.apiKey != "" {
		params.Set("api_key", r.apiKey)
	}

	body, err := r.pool.Fetch(ctx, searchBase+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("searching for %s: %w", req.DisplayName, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing search results for %s: %w", req.DisplayName, err)
	}

	var hits []*searchHit
	doc.Find("a.result__a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		hits = append(hits, &searchHit{
			title: strings.TrimSpace(sel.Text()),
			href:  decodeRedirect(href),
		})
		return len(hits) < r.maxResults
	})
	return hits, nil
}

// decodeRedirect unwraps DuckDuckGo's /l/?uddg=<target> redirect links.
func decodeRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}

// pickCandidate scores each hit's title prefix against the author's name and
// returns the best hit at or above the confidence floor.
func (r *Resolver) pickCandidate(displayName string, hits []*searchHit) (*searchHit, float64) {
	var best *searchHit
	var bestScore float64
	for _, hit := range hits {
		score := identity.MatchScore(displayName, candidateName(hit.title))
		if score > bestScore {
			best, bestScore = hit, score
		}
	}
	if bestScore < r.minConfidence {
		return nil, 0
	}
	return best, bestScore
}

// candidateName cuts a result title down to its leading name segment:
// "Alice Smith - Stanford University" becomes "Alice Smith".
func candidateName(title string) string {
	for _, sep := range []string{" - ", " | ", " – ", ":"} {
		if cut, _, found := strings.Cut(title, sep); found {
			title = cut
		}
	}
	return strings.TrimSpace(title)
}

func classifyLink(rec *types.ContactRecord, href string) {
	switch {
	case strings.Contains(href, "linkedin.com/in"):
		rec.LinkedIn = href
	case strings.Contains(href, "scholar.google.com/citations"):
		rec.ScholarProfile = href
	default:
		rec.Website = href
	}
}

// classifyProfile fills profile slots from secondary hits without
// overwriting anything already found.
func classifyProfile(rec *types.ContactRecord, href string) {
	switch {
	case rec.LinkedIn == "" && strings.Contains(href, "linkedin.com/in"):
		rec.LinkedIn = href
	case rec.ScholarProfile == "" && strings.Contains(href, "scholar.google.com/citations"):
		rec.ScholarProfile = href
	}
}

// extractEmail fetches a page and pulls the first email address, undoing the
// common " [at] " / " [dot] " obfuscation first. Fetch failures yield an
// empty string, not an error: a profile without a scrapable email is normal.
func (r *Resolver) extractEmail(ctx context.Context, pageURL string) string {
	body, err := r.pool.Fetch(ctx, pageURL)
	if err != nil {
		return ""
	}
	text := string(body)
	text = strings.ReplaceAll(text, " [at] ", "@")
	text = strings.ReplaceAll(text, "[at]", "@")
	text = strings.ReplaceAll(text, " [dot] ", ".")
	text = strings.ReplaceAll(text, "[dot]", ".")
	return strings.ToLower(emailPattern.FindString(text))
}
