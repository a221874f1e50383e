package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"poolLens/internal/model"
)

// ErrOracleUnavailable marks price service failures: unreachable
// endpoint, bad status, or a malformed response. There is no stale
// fallback, so callers treat this as fatal.
var ErrOracleUnavailable = errors.New("price oracle unavailable")

const (
	// DefaultBaseURL is the CoinGecko simple-price API root.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	defaultTimeout = 10 * time.Second
)

// Registry maps token symbols to the oracle's asset identifiers.
type Registry map[string]string

// DefaultRegistry covers the reference assets supported out of the box.
func DefaultRegistry() Registry {
	return Registry{
		"WETH": "weth",
		"WBTC": "wrapped-bitcoin",
	}
}

// Client fetches USD reference prices over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	registry   Registry
	logger     *zap.Logger
}

// NewClient builds an oracle client. Empty baseURL selects the default
// endpoint; nil registry selects the default asset set.
func NewClient(baseURL string, registry Registry, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		registry:   registry,
		logger:     logger,
	}
}

// FetchUSDPrices queries current USD prices for every registered asset
// and returns them keyed by token symbol.
func (c *Client) FetchUSDPrices(ctx context.Context) (model.PriceTable, error) {
	if len(c.registry) == 0 {
		return nil, fmt.Errorf("%w: empty asset registry", ErrOracleUnavailable)
	}

	ids := make([]string, 0, len(c.registry))
	for _, id := range c.registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrOracleUnavailable, resp.StatusCode)
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrOracleUnavailable, err)
	}

	table := make(model.PriceTable, len(c.registry))
	for symbol, id := range c.registry {
		entry, ok := payload[id]
		if !ok {
			return nil, fmt.Errorf("%w: missing asset %s", ErrOracleUnavailable, id)
		}
		usd, ok := entry["usd"]
		if !ok {
			return nil, fmt.Errorf("%w: missing usd price for %s", ErrOracleUnavailable, id)
		}
		table[symbol] = usd
	}

	c.logger.Debug("oracle prices fetched", zap.Int("assets", len(table)))
	return table, nil
}
