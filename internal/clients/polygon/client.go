// Package polygon provides daily close prices from the Polygon.io open-close endpoint.
package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aristath/bank/internal/clientdata"
	"github.com/aristath/bank/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DefaultBaseURL is the public Polygon API
const DefaultBaseURL = "https://api.polygon.io"

// Client for the Polygon.io REST API
type Client struct {
	baseURL   string
	apiKey    string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
	cacheTTL  time.Duration
}

// NewClient creates a new Polygon client
// cacheRepo is optional - if nil, caching is disabled
func NewClient(baseURL, apiKey string, cacheRepo *clientdata.Repository, cacheTTL time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cacheTTL <= 0 {
		cacheTTL = clientdata.TTLPolygonClose
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.With().Str("client", "polygon").Logger(),
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
	}
}

// openCloseResponse is the subset of /v1/open-close we read
type openCloseResponse struct {
	Status string           `json:"status"`
	Symbol string           `json:"symbol"`
	Close  *decimal.Decimal `json:"close"`
}

// cachedClose is the structure stored in the cache
type cachedClose struct {
	Close decimal.Decimal `json:"close"`
}

// ClosePrice returns symbol's close on date.
// Any failure to obtain a positive close is reported as an UpstreamError naming the ticker.
func (c *Client) ClosePrice(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	day := date.Format(dateLayout)
	cacheKey := symbol + ":" + day

	if price, ok := c.getFromCache(cacheKey); ok {
		c.log.Debug().Str("symbol", symbol).Str("date", day).Str("close", price.String()).Msg("Cache hit")
		return price, nil
	}

	price, err := c.fetchClose(ctx, symbol, day)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Str("date", day).Msg("Price lookup failed")
		return decimal.Zero, domain.WrapError(domain.KindUpstream, err, "error getting price of ticker: %s", symbol)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(clientdata.TablePolygonClose, cacheKey, cachedClose{Close: price}, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache close price")
		}
	}

	c.log.Info().Str("symbol", symbol).Str("date", day).Str("close", price.String()).Msg("Fetched close price")
	return price, nil
}

func (c *Client) fetchClose(ctx context.Context, symbol, day string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/v1/open-close/%s/%s?adjusted=true&apiKey=%s",
		c.baseURL, url.PathEscape(symbol), day, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var result openCloseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Close == nil {
		return decimal.Zero, fmt.Errorf("response has no close (status %q)", result.Status)
	}
	if !result.Close.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive close %s", result.Close.String())
	}

	return *result.Close, nil
}

// getFromCache returns a fresh cached close. Expired entries are never served.
func (c *Client) getFromCache(cacheKey string) (decimal.Decimal, bool) {
	if c.cacheRepo == nil {
		return decimal.Zero, false
	}

	data, err := c.cacheRepo.GetIfFresh(clientdata.TablePolygonClose, cacheKey)
	if err != nil || data == nil {
		return decimal.Zero, false
	}

	var cached cachedClose
	if err := json.Unmarshal(data, &cached); err != nil {
		return decimal.Zero, false
	}

	return cached.Close, true
}
