package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the listing fetch.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the root of the search site (default "https://arxiv.org").
	// Relative abstract links in the listing are resolved against it.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxResults caps the number of listing entries processed per job.
	// Zero means no cap.
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// SummaryConfig holds the extractive summarizer tuning knobs.
type SummaryConfig struct {
	// Sentences is the number of sentences selected per paper (default 3).
	Sentences int `json:"sentences" yaml:"sentences"`

	// ClusterDistance is the maximum number of non-significant words
	// allowed between two significant words inside one scoring window
	// (default 4).
	ClusterDistance int `json:"cluster_distance" yaml:"cluster_distance"`

	// MinFrequency is the lowest document frequency at which a word counts
	// as significant (default 2).
	MinFrequency int `json:"min_frequency" yaml:"min_frequency"`

	// MaxFrequencyRatio caps significance: words occurring in more than
	// this fraction of sentences are treated as noise (default 0.5).
	MaxFrequencyRatio float64 `json:"max_frequency_ratio" yaml:"max_frequency_ratio"`

	// Language selects stop words and the stemmer (default "english").
	Language string `json:"language" yaml:"language"`
}

// StoreBackend identifies the job store implementation.
type StoreBackend string

const (
	StoreMemory StoreBackend = "memory"
	StoreSQLite StoreBackend = "sqlite"
	StoreRedis  StoreBackend = "redis"
)

// StoreConfig holds settings for job record persistence.
type StoreConfig struct {
	// Backend selects the store: memory, sqlite, or redis.
	Backend StoreBackend `json:"backend" yaml:"backend"`

	// Path is the SQLite database file (sqlite backend only).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// RedisURL is the redis connection URL (redis backend only).
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`

	// TTL is how long a terminal job record is retained before eviction
	// (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// PipelineConfig holds settings for per-job execution.
type PipelineConfig struct {
	// Concurrency bounds how many papers are fetched and summarized at
	// once within a single job (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// ItemTimeout bounds one paper's fetch+summarize; on expiry the item
	// is recorded as failed and the job continues (default 20s).
	ItemTimeout time.Duration `json:"item_timeout" yaml:"item_timeout"`
}

// ServerConfig holds HTTP boundary settings.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// Config groups all component configurations.
type Config struct {
	Search   SearchConfig   `json:"search" yaml:"search"`
	Summary  SummaryConfig  `json:"summary" yaml:"summary"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}
