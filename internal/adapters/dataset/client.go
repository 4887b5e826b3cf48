// Package dataset fetches the pre-computed JSON tree exported by the vote
// processing pipeline: a config index plus one dataset per (period, topic).
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/epwatch/rebelboard/internal/domain/model"
	"github.com/epwatch/rebelboard/pkg/logger"
	"github.com/epwatch/rebelboard/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultFetchTimeout = 10 * time.Second
	defaultCacheSize    = 64
)

// Provider is the read-only contract the application depends on. Calls are
// idempotent reads over static resources.
type Provider interface {
	// Config fetches the board configuration (topic index, periods).
	Config(ctx context.Context) (model.BoardConfig, error)

	// Fetch returns the dataset for a period and topic slug. Use
	// model.AllTopics for the unfiltered per-period dataset.
	// Returns ErrNoData when no export exists for the combination.
	Fetch(ctx context.Context, period, topicSlug string) (model.Dataset, error)
}

// Client implements Provider over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   *datasetCache
	log     logger.Logger
}

// New creates a Client rooted at baseURL, the directory holding config.json
// and the periods/ tree.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultFetchTimeout},
		cache:   newDatasetCache(defaultCacheSize),
		log:     logger.Named("dataset"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config fetches and decodes config.json.
func (c *Client) Config(ctx context.Context) (model.BoardConfig, error) {
	var cfg model.BoardConfig
	if err := c.getJSON(ctx, c.baseURL+"/config.json", &cfg); err != nil {
		return model.BoardConfig{}, err
	}
	if len(cfg.Periods) == 0 {
		return model.BoardConfig{}, fmt.Errorf("%w: config has no periods", ErrDecode)
	}
	return cfg, nil
}

// Fetch returns the dataset for a period and topic slug, consulting the
// in-memory cache first. Static exports never change within a deploy, so
// cached entries are served as-is.
func (c *Client) Fetch(ctx context.Context, period, topicSlug string) (model.Dataset, error) {
	key := period + "/" + topicSlug
	if ds, ok := c.cache.get(key); ok {
		c.log.Debug(ctx, "dataset cache hit", logger.String("key", key))
		return ds, nil
	}

	var ds model.Dataset
	if err := c.getJSON(ctx, c.datasetURL(period, topicSlug), &ds); err != nil {
		return model.Dataset{}, err
	}
	c.cache.put(key, ds)
	return ds, nil
}

// datasetURL maps a selection onto the exported file layout.
func (c *Client) datasetURL(period, topicSlug string) string {
	if topicSlug == "" || topicSlug == model.AllTopics {
		return fmt.Sprintf("%s/periods/%s/mep_data.json", c.baseURL, url.PathEscape(period))
	}
	return fmt.Sprintf("%s/periods/%s/topics/%s.json", c.baseURL, url.PathEscape(period), url.PathEscape(topicSlug))
}

// getJSON performs one GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	requestID := uuid.NewString()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		metrics.RecordDatasetFetchError("request")
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.RecordDatasetFetchError("network")
		c.log.Warn(ctx, "dataset fetch failed",
			logger.String("url", rawURL),
			logger.String("request_id", requestID),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordDatasetFetchError("not_found")
		return fmt.Errorf("%w: %s", ErrNoData, rawURL)
	case resp.StatusCode != http.StatusOK:
		metrics.RecordDatasetFetchError("status")
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordDatasetFetchError("decode")
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	latency := float64(time.Since(start).Milliseconds())
	metrics.RecordDatasetFetch(latency)
	c.log.Debug(ctx, "dataset fetched",
		logger.String("url", rawURL),
		logger.String("request_id", requestID),
		logger.Float64("latency_ms", latency),
	)
	return nil
}
