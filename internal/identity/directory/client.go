// Package directory enriches a bare reviewer id with display data from the
// chat platform's user directory. Enrichment is strictly additive: any
// failure degrades to the minimal identity instead of blocking the caller.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"guardpost/internal/identity"
	"guardpost/internal/platform/metrics"
)

// Cache stores enriched identities with TTL eviction. Implementations must
// return sentinel.ErrNotFound on a miss.
type Cache interface {
	Find(ctx context.Context, reviewerID string) (identity.Identity, error)
	Save(ctx context.Context, id identity.Identity) error
}

// Client performs directory lookups using a privileged bot credential.
type Client struct {
	baseURL    string
	botToken   string
	timeout    time.Duration
	httpClient *http.Client
	cache      Cache
	logger     *slog.Logger
	metrics    *metrics.Metrics
	group      singleflight.Group
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithCache adds a lookup cache in front of the directory.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithMetrics records lookup outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a directory client. An empty botToken is allowed; lookups then
// degrade to minimal identities without calling out.
func New(baseURL, botToken string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		botToken: botToken,
		timeout:  timeout,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// userResponse is the directory's wire representation of a user.
type userResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
}

// Enrich resolves display data for the given reviewer id. It never fails the
// caller: on any network error, timeout, non-success status, or missing bot
// credential it returns the minimal identity carrying only the id. Concurrent
// lookups for the same id are collapsed into one upstream request.
func (c *Client) Enrich(ctx context.Context, reviewerID string) identity.Identity {
	minimal := identity.Identity{ID: reviewerID}
	if reviewerID == "" {
		return minimal
	}
	if c.botToken == "" {
		c.countLookup("skipped")
		return minimal
	}

	if c.cache != nil {
		if cached, err := c.cache.Find(ctx, reviewerID); err == nil {
			c.countLookup("cache_hit")
			return cached
		}
	}

	v, err, _ := c.group.Do(reviewerID, func() (any, error) {
		// Detached from the inbound context: the flight serves every caller
		// collapsed behind it, so the first caller's abort must not fail the
		// rest. fetch bounds itself with the client timeout.
		return c.fetch(context.WithoutCancel(ctx), reviewerID)
	})
	if err != nil {
		c.countLookup("error")
		c.logger.WarnContext(ctx, "directory lookup failed, using minimal identity",
			"reviewer_id", reviewerID,
			"error", err,
		)
		return minimal
	}

	id := v.(identity.Identity)
	c.countLookup("ok")

	if c.cache != nil {
		if err := c.cache.Save(ctx, id); err != nil {
			c.logger.WarnContext(ctx, "directory cache write failed",
				"reviewer_id", reviewerID,
				"error", err,
			)
		}
	}
	return id
}

func (c *Client) fetch(ctx context.Context, reviewerID string) (identity.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/users/%s", c.baseURL, reviewerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("create directory request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("directory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return identity.Identity{}, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("read directory response: %w", err)
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return identity.Identity{}, fmt.Errorf("decode directory response: %w", err)
	}

	return identity.Identity{
		ID:         reviewerID,
		Username:   user.Username,
		GlobalName: user.GlobalName,
	}, nil
}

func (c *Client) countLookup(outcome string) {
	if c.metrics != nil {
		c.metrics.DirectoryLookups.WithLabelValues(outcome).Inc()
	}
}
