package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ndedov/coinwatch/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client queries the CoinGecko simple-price endpoint. One call covers any
// number of coin identifiers; identifiers unknown upstream are simply absent
// from the response.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Prices(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	if len(ids) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("coingecko request failed", zap.Strings("ids", ids), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer response.Body.Close()

	c.logger.Debug(
		"coingecko request complete",
		zap.Int("ids", len(ids)),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, response.StatusCode)
	}

	var payload map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrUpstreamUnavailable, err)
	}

	prices := make(map[string]decimal.Decimal, len(payload))
	for id, quotes := range payload {
		if usd, ok := quotes["usd"]; ok {
			prices[id] = usd
		}
	}
	return prices, nil
}

// Price looks up a single identifier; used to validate new registry entries.
func (c *Client) Price(ctx context.Context, id string) (decimal.Decimal, bool, error) {
	prices, err := c.Prices(ctx, []string{id})
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	price, ok := prices[id]
	return price, ok, nil
}
