package airquality

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/Phurinon/Project-SE-T14-sub000/pkg/errors"
	"github.com/Phurinon/Project-SE-T14-sub000/pkg/httpclient"
)

// Measurement is a PM2.5 reading for a coordinate. Degraded marks a stale
// cached value served because the upstream provider was unavailable.
type Measurement struct {
	PM25       float64   `json:"pm25"`
	MeasuredAt time.Time `json:"measured_at"`
	Degraded   bool      `json:"degraded,omitempty"`
}

// Config holds air-quality provider and cache settings.
type Config struct {
	BaseURL string
	Token   string

	// FreshTTL is how long a cached reading is served without re-fetching.
	FreshTTL time.Duration

	// StaleTTL is how long a reading stays in the cache as a fallback for
	// upstream outages. Must exceed FreshTTL.
	StaleTTL time.Duration
}

// DefaultConfig returns provider defaults: readings are fresh for 10 minutes
// and usable as an outage fallback for 6 hours.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://api.waqi.info",
		FreshTTL: 10 * time.Minute,
		StaleTTL: 6 * time.Hour,
	}
}

type doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client measures PM2.5 for coordinates with a Redis read-through cache in
// front of the provider.
type Client struct {
	cfg    Config
	http   doer
	cache  *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

// New creates an air-quality client. The HTTP client is expected to carry
// retry and circuit-breaker behavior already.
func New(cfg Config, httpClient doer, cache *redis.Client, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

type cachedReading struct {
	PM25      float64   `json:"pm25"`
	FetchedAt time.Time `json:"fetched_at"`
}

// cacheKey buckets coordinates into roughly 1 km cells so nearby lookups
// share a reading.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("airquality:%.2f:%.2f", lat, lon)
}

// Measure returns the PM2.5 reading for the coordinate. Fresh cache hits skip
// the provider entirely. When the provider fails, a stale cached reading is
// returned flagged degraded; with a cold cache the provider error surfaces.
func (c *Client) Measure(ctx context.Context, lat, lon float64) (*Measurement, error) {
	key := cacheKey(lat, lon)

	cached, ok := c.getCached(ctx, key)
	if ok && c.now().Sub(cached.FetchedAt) <= c.cfg.FreshTTL {
		return &Measurement{PM25: cached.PM25, MeasuredAt: cached.FetchedAt}, nil
	}

	pm25, err := c.fetch(ctx, lat, lon)
	if err != nil {
		if ok {
			c.logger.WarnContext(ctx, "air quality provider failed, serving stale reading",
				slog.String("key", key),
				slog.String("error", err.Error()))
			return &Measurement{PM25: cached.PM25, MeasuredAt: cached.FetchedAt, Degraded: true}, nil
		}
		return nil, err
	}

	measuredAt := c.now().UTC()
	c.setCached(ctx, key, cachedReading{PM25: pm25, FetchedAt: measuredAt})

	return &Measurement{PM25: pm25, MeasuredAt: measuredAt}, nil
}

func (c *Client) getCached(ctx context.Context, key string) (cachedReading, bool) {
	if c.cache == nil {
		return cachedReading{}, false
	}

	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "air quality cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return cachedReading{}, false
	}

	var r cachedReading
	if err := json.Unmarshal(raw, &r); err != nil {
		return cachedReading{}, false
	}
	return r, true
}

func (c *Client) setCached(ctx context.Context, key string, r cachedReading) {
	if c.cache == nil {
		return
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cfg.StaleTTL).Err(); err != nil {
		c.logger.WarnContext(ctx, "air quality cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

type providerResponse struct {
	Status string `json:"status"`
	Data   struct {
		IAQI struct {
			PM25 struct {
				V float64 `json:"v"`
			} `json:"pm25"`
		} `json:"iaqi"`
	} `json:"data"`
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (float64, error) {
	url := fmt.Sprintf("%s/feed/geo:%f;%f/?token=%s", c.cfg.BaseURL, lat, lon, c.cfg.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build air quality request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return 0, apperrors.Upstream("air quality provider", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, httpclient.ParseResponseError(resp, "air quality provider")
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, apperrors.Upstream("air quality provider", fmt.Errorf("decode response: %w", err))
	}
	if body.Status != "ok" {
		return 0, apperrors.Upstream("air quality provider",
			fmt.Errorf("provider status %q", body.Status))
	}

	return body.Data.IAQI.PM25.V, nil
}
