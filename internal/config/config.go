// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataBaseURL is the root of the exported JSON tree, the directory
	// holding config.json and periods/.
	DataBaseURL string `koanf:"data_base_url"`

	// FetchTimeoutMS bounds a single dataset fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// DatasetCacheSize bounds the in-memory dataset cache (entries).
	DatasetCacheSize int `koanf:"dataset_cache_size"`

	// JitterAmount is the total jitter width applied to chart positions.
	JitterAmount float64 `koanf:"jitter_amount"`

	// MaxTopicResults caps fuzzy search hits returned per query.
	MaxTopicResults int `koanf:"max_topic_results"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9090",
		DataBaseURL:      "https://epwatch.github.io/rebelboard/data",
		FetchTimeoutMS:   10_000,
		DatasetCacheSize: 64,
		JitterAmount:     0.3,
		MaxTopicResults:  20,
	}
}
