// Package hydration talks to the history backfill service that can add
// historical games for a matchup on demand.
package hydration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/totals-engine/internal/models"
)

// APIKeyHeader carries the service API key.
const APIKeyHeader = "X-API-Key"

const hydratePath = "/v1/hydrate"

// Config holds the backfill service settings
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RetryMax          int
	RequestsPerSecond float64
}

type hydrateRequest struct {
	SportID      string         `json:"sport_id"`
	EntityLowID  int64          `json:"entity_low_id"`
	EntityHighID int64          `json:"entity_high_id"`
	KeyedBy      models.KeyedBy `json:"keyed_by"`
	YearsBack    int            `json:"years_back"`
}

type hydrateResponse struct {
	InsertedCount int `json:"inserted_count"`
	TotalCount    int `json:"total_count"`
}

// Client triggers hydration runs over HTTP
type Client struct {
	http    *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	log     *logrus.Entry
}

// NewClient creates a new hydration client
func NewClient(cfg Config, log *logrus.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("hydration base url is required")
	}

	entry := log.WithField("component", "hydration")

	httpCfg := DefaultHTTPClientConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}
	httpCfg.MaxRetries = cfg.RetryMax
	if cfg.RequestsPerSecond > 0 {
		httpCfg.RateLimit = cfg.RequestsPerSecond
	}

	return &Client{
		http:    NewRateLimitedHTTPClient(httpCfg, entry),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		log:     entry,
	}, nil
}

// TriggerHydration asks the service to backfill yearsBack seasons of history
// for the matchup and reports how many games were added.
func (c *Client) TriggerHydration(ctx context.Context, key models.MatchupKey, yearsBack int) (models.HydrationResult, error) {
	body, err := json.Marshal(hydrateRequest{
		SportID:      key.SportID,
		EntityLowID:  key.LowID,
		EntityHighID: key.HighID,
		KeyedBy:      key.KeyedBy,
		YearsBack:    yearsBack,
	})
	if err != nil {
		return models.HydrationResult{}, fmt.Errorf("failed to encode hydration request: %w", err)
	}

	headers := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		headers[APIKeyHeader] = c.apiKey
	}

	resp, err := c.http.Post(ctx, c.baseURL+hydratePath, "application/json", bytes.NewReader(body), headers)
	if err != nil {
		return models.HydrationResult{}, fmt.Errorf("hydration request for %s failed: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.HydrationResult{}, fmt.Errorf("hydration for %s returned status %d: %s",
			key, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out hydrateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.HydrationResult{}, fmt.Errorf("failed to decode hydration response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"matchup":        key.String(),
		"years_back":     yearsBack,
		"inserted_count": out.InsertedCount,
		"total_count":    out.TotalCount,
	}).Debug("Hydration response received")

	return models.HydrationResult{InsertedCount: out.InsertedCount, TotalCount: out.TotalCount}, nil
}

// Close releases idle connections
func (c *Client) Close() error {
	return c.http.Close()
}
