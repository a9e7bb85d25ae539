// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// FetchErrorKind classifies a failed page retrieval.
type FetchErrorKind string

const (
	// FetchTransient covers timeouts, connection resets, and 5xx responses
	// that survived the bounded retry budget.
	FetchTransient FetchErrorKind = "transient"

	// FetchPermanent covers 4xx responses other than rate limits. Never retried.
	FetchPermanent FetchErrorKind = "permanent"

	// FetchRateLimited covers 429 responses that persisted through the
	// pool-wide cooldown.
	FetchRateLimited FetchErrorKind = "rate_limited"
)

// FetchError reports a per-URL retrieval failure. A FetchError never aborts
// the surrounding batch; it is surfaced in that URL's slot of the result set.
type FetchError struct {
	Kind   FetchErrorKind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: %s (HTTP %d)", e.URL, e.Kind, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseErrorKind classifies a page parsing failure.
type ParseErrorKind string

// ParseMalformed indicates markup that lacked the structure the parser
// expected. The page is reported and skipped; the batch continues.
const ParseMalformed ParseErrorKind = "malformed"

// ParseError reports an unparseable page.
type ParseError struct {
	Kind    ParseErrorKind
	PageRef string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.PageRef, e.Kind, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.PageRef, e.Kind)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ResolveErrorKind classifies a contact resolution failure.
type ResolveErrorKind string

const (
	// ResolveNotFound means no candidate profile matched the author at or
	// above the configured confidence floor.
	ResolveNotFound ResolveErrorKind = "not_found"

	// ResolveLowConfidence marks a weak match that was accepted anyway.
	// Weak matches are recorded on the ContactRecord's Confidence field
	// rather than returned as failures, so this kind is advisory.
	ResolveLowConfidence ResolveErrorKind = "low_confidence"
)

// ResolveError reports a per-author contact resolution failure. Batch
// resolution returns one ResolveError per failed author and still succeeds
// for the rest.
type ResolveError struct {
	Kind      ResolveErrorKind
	AuthorKey AuthorKey
	Err       error
}

func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %s: %s: %v", e.AuthorKey, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve %s: %s", e.AuthorKey, e.Kind)
}

func (e *ResolveError) Unwrap() error { return e.Err }
