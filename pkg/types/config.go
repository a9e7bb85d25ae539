package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "confscout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the bounded-concurrency fetch pool.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxConcurrency bounds the number of requests in flight (default 500).
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency"`

	// MaxRetries is the retry budget per URL for transient failures (default 4).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestsPerSecond caps the steady request rate across the pool.
	// Zero means unlimited.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// ScrapeConfig holds settings for the primary schedule scrape.
type ScrapeConfig struct {
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`

	// DataPath is the SQLite dataset file the scrape appends to.
	DataPath string `json:"data_path" yaml:"data_path"`
}

// ContactConfig holds settings for the contact resolution stage.
type ContactConfig struct {
	// MinConfidence is the lowest name-match score accepted for a
	// candidate profile (default 0.5). Below it resolution fails
	// with not_found.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// MaxResults bounds how many search hits are considered per author
	// (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// SearchAPIKey is an optional key forwarded to the profile-search
	// endpoint for providers that require one.
	SearchAPIKey string `json:"search_api_key,omitempty" yaml:"search_api_key,omitempty"`
}

// AnalyzeConfig holds settings for leaderboard queries.
type AnalyzeConfig struct {
	// TopN is the default leaderboard length (default 10).
	TopN int `json:"top_n" yaml:"top_n"`

	// GroupThreshold is the minimum shared-paper count for a co-authorship
	// edge to join two authors into a publishing group (default 2).
	GroupThreshold int `json:"group_threshold" yaml:"group_threshold"`

	// ConfirmThreshold is the batch size above which contact fan-out
	// requires explicit confirmation (default 3).
	ConfirmThreshold int `json:"confirm_threshold" yaml:"confirm_threshold"`

	// AliasFile optionally extends the institution canonicalization table.
	AliasFile string `json:"alias_file,omitempty" yaml:"alias_file,omitempty"`
}

// Config groups all stage configurations.
type Config struct {
	Scrape  ScrapeConfig  `json:"scrape" yaml:"scrape"`
	Contact ContactConfig `json:"contact" yaml:"contact"`
	Analyze AnalyzeConfig `json:"analyze" yaml:"analyze"`
}
