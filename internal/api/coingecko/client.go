// Package coingecko is a client for the CoinGecko spot market API.
package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"time"

	platformhttp "github.com/Alias1177/Accumulator/internal/platform/http"
	"github.com/Alias1177/Accumulator/models"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Client accesses CoinGecko market data.
type Client struct {
	apiKey  string
	baseURL string
	http    *platformhttp.Client
}

// NewClient builds a CoinGecko client. The API key is optional; without it
// requests run against the public rate limits.
func NewClient(apiKey string, httpClient *platformhttp.Client) *Client {
	if httpClient == nil {
		httpClient = platformhttp.NewClient(platformhttp.ClientOptions{})
	}
	return &Client{apiKey: apiKey, baseURL: defaultBaseURL, http: httpClient}
}

func (c *Client) params() url.Values {
	p := url.Values{}
	if c.apiKey != "" {
		p.Set("x_cg_demo_api_key", c.apiKey)
	}
	return p
}

// BitcoinPrice returns the current BTC/USD spot price.
func (c *Client) BitcoinPrice(ctx context.Context) (float64, error) {
	params := c.params()
	params.Set("ids", "bitcoin")
	params.Set("vs_currencies", "usd")

	var resp map[string]map[string]float64
	if err := c.http.GetJSON(ctx, c.baseURL+"/simple/price", params, &resp); err != nil {
		return 0, fmt.Errorf("coingecko price: %w", err)
	}

	price, ok := resp["bitcoin"]["usd"]
	if !ok {
		return 0, fmt.Errorf("coingecko price: bitcoin quote missing from response")
	}
	return price, nil
}

type coinResponse struct {
	MarketCapRank int `json:"market_cap_rank"`
	MarketData    struct {
		CurrentPrice           map[string]float64 `json:"current_price"`
		MarketCap              map[string]float64 `json:"market_cap"`
		TotalVolume            map[string]float64 `json:"total_volume"`
		PriceChangePercent24h  float64            `json:"price_change_percentage_24h"`
		PriceChangePercent7d   float64            `json:"price_change_percentage_7d"`
		PriceChangePercent30d  float64            `json:"price_change_percentage_30d"`
		CirculatingSupply      float64            `json:"circulating_supply"`
	} `json:"market_data"`
}

// MarketData returns a broader spot market snapshot for Bitcoin.
func (c *Client) MarketData(ctx context.Context) (models.MarketData, error) {
	var resp coinResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/coins/bitcoin", c.params(), &resp); err != nil {
		return models.MarketData{}, fmt.Errorf("coingecko market data: %w", err)
	}

	return models.MarketData{
		PriceUSD:          resp.MarketData.CurrentPrice["usd"],
		MarketCap:         resp.MarketData.MarketCap["usd"],
		Volume24h:         resp.MarketData.TotalVolume["usd"],
		PriceChange24h:    resp.MarketData.PriceChangePercent24h,
		PriceChange7d:     resp.MarketData.PriceChangePercent7d,
		PriceChange30d:    resp.MarketData.PriceChangePercent30d,
		CirculatingSupply: resp.MarketData.CirculatingSupply,
	}, nil
}

// HealthCheck probes the API by fetching the spot price.
func (c *Client) HealthCheck(ctx context.Context) models.ProviderHealth {
	h := models.ProviderHealth{Provider: "coingecko", Timestamp: time.Now()}

	if _, err := c.BitcoinPrice(ctx); err != nil {
		h.Status = models.StatusError
		h.Error = err.Error()
		return h
	}
	h.Status = models.StatusHealthy
	return h
}
