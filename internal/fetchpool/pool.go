// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetchpool retrieves pages over HTTP under a bounded concurrency
// budget. Each request retries transient failures with exponential backoff;
// rate-limit responses pause the whole pool, since remote limiting is
// per-client rather than per-request. The pool knows nothing about page
// semantics and is shared by the schedule scrape and the contact resolver.
package fetchpool

import (
	"context"
	"io"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/confscout/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// transient failures. Tests override this to avoid real sleeps.
var RetryBaseDelay = 500 * time.Millisecond

// CooldownBase controls the pool-wide pause applied on the first HTTP 429.
// The pause doubles on consecutive rate limits within one request.
var CooldownBase = 5 * time.Second

const (
	defaultMaxRetries     = 4
	defaultMaxConcurrency = 500
	defaultTimeout        = 60 * time.Second
	defaultUserAgent      = "confscout/0.1"
)

// Result pairs an input URL with its page body or error. Every input URL of
// a FetchAll call produces exactly one Result; no ordering is guaranteed.
type Result struct {
	URL  string
	Body []byte
	Err  error
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Fetched   int64
	Failed    int64
	Retries   int64
	Cooldowns int64
}

// Pool is a bounded-concurrency HTTP fetcher. The zero value is not usable;
// construct with New.
type Pool struct {
	client     *http.Client
	sem        chan struct{}
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int

	mu          sync.Mutex
	pausedUntil time.Time

	fetched   atomic.Int64
	failed    atomic.Int64
	retries   atomic.Int64
	cooldowns atomic.Int64
}

// New builds a pool from cfg, filling in defaults for zero fields.
func New(cfg types.FetchConfig) *Pool {
	conc := cfg.MaxConcurrency
	if conc <= 0 {
		conc = defaultMaxConcurrency
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), conc)
	}

	return &Pool{
		client:     &http.Client{Timeout: timeout},
		sem:        make(chan struct{}, conc),
		limiter:    limiter,
		userAgent:  ua,
		maxRetries: retries,
	}
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Fetched:   p.fetched.Load(),
		Failed:    p.failed.Load(),
		Retries:   p.retries.Load(),
		Cooldowns: p.cooldowns.Load(),
	}
}

// Fetch retrieves one URL, holding a concurrency slot for the duration.
// Transient failures (network errors, 5xx) retry with exponential backoff up
// to the configured budget. 429 pauses the whole pool before retrying.
// Non-429 4xx responses fail immediately as permanent.
func (p *Pool) Fetch(ctx context.Context, url string) ([]byte, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.sem }()

	body, err := p.fetch(ctx, url)
	if err != nil {
		p.failed.Add(1)
		return nil, err
	}
	p.fetched.Add(1)
	return body, nil
}

// FetchAll retrieves every URL under the pool's concurrency bound and sends
// one Result per URL on the returned channel in completion order. The
// channel is closed once all URLs are accounted for. Cancelling ctx stops
// issuing new fetches; in-flight requests drain with an error Result.
func (p *Pool) FetchAll(ctx context.Context, urls []string) <-chan Result {
	out := make(chan Result, len(urls))
	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			body, err := p.Fetch(ctx, u)
			out <- Result{URL: u, Body: body, Err: err}
		}(u)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (p *Pool) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			p.retries.Add(1)
			if err := sleepCtx(ctx, backoff(attempt-1)); err != nil {
				return nil, err
			}
		}
		if err := p.waitCooldown(ctx); err != nil {
			return nil, err
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &types.FetchError{Kind: types.FetchPermanent, URL: url, Err: err}
		}
		req.Header.Set("User-Agent", p.userAgent)

		resp, err := p.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Timeouts and connection resets are transient.
			lastErr = &types.FetchError{Kind: types.FetchTransient, URL: url, Err: err}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = &types.FetchError{Kind: types.FetchTransient, URL: url, Err: readErr}
				continue
			}
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			drain(resp)
			p.cooldowns.Add(1)
			p.pause(time.Duration(math.Pow(2, float64(attempt))) * CooldownBase)
			lastErr = &types.FetchError{Kind: types.FetchRateLimited, URL: url, Status: resp.StatusCode}

		case resp.StatusCode >= 500:
			drain(resp)
			lastErr = &types.FetchError{Kind: types.FetchTransient, URL: url, Status: resp.StatusCode}

		default:
			drain(resp)
			return nil, &types.FetchError{Kind: types.FetchPermanent, URL: url, Status: resp.StatusCode}
		}
	}

	return nil, lastErr
}

// pause extends the pool-wide cooldown deadline. Later deadlines win so
// overlapping 429s from many workers produce one shared pause.
func (p *Pool) pause(d time.Duration) {
	until := time.Now().Add(d)
	p.mu.Lock()
	if until.After(p.pausedUntil) {
		p.pausedUntil = until
	}
	p.mu.Unlock()
}

func (p *Pool) waitCooldown(ctx context.Context) error {
	for {
		p.mu.Lock()
		wait := time.Until(p.pausedUntil)
		p.mu.Unlock()
		if wait <= 0 {
			return nil
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
