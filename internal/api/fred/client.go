// Package fred is a client for the Federal Reserve Economic Data API. It
// supplies the fed funds rate and M2 money supply series that drive the
// macro legs of the scoring model.
package fred

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	platformhttp "github.com/Alias1177/Accumulator/internal/platform/http"
	"github.com/Alias1177/Accumulator/models"
)

const (
	defaultBaseURL = "https://api.stlouisfed.org/fred"

	seriesFedFunds = "DFF"
	seriesM2       = "M2SL"

	// pivot detection parameters, in basis-point terms
	pivotThreshold     = 0.5
	directionThreshold = 0.25
)

// Client accesses FRED time series.
type Client struct {
	apiKey  string
	baseURL string
	http    *platformhttp.Client
}

// NewClient builds a FRED client. FRED allows unauthenticated requests at a
// reduced rate, so an empty key is tolerated.
func NewClient(apiKey string, httpClient *platformhttp.Client) *Client {
	if httpClient == nil {
		httpClient = platformhttp.NewClient(platformhttp.ClientOptions{})
	}
	return &Client{apiKey: apiKey, baseURL: defaultBaseURL, http: httpClient}
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Series fetches observations for a series since startDate, in ascending
// date order. Missing values (reported as ".") are dropped.
func (c *Client) Series(ctx context.Context, seriesID string, startDate time.Time) ([]models.Observation, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("file_type", "json")
	params.Set("limit", "1000")
	params.Set("sort_order", "desc")
	params.Set("observation_start", startDate.Format("2006-01-02"))
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	var resp observationsResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/series/observations", params, &resp); err != nil {
		return nil, fmt.Errorf("fred series %s: %w", seriesID, err)
	}
	if len(resp.Observations) == 0 {
		log.Warn().Str("series", seriesID).Msg("no data found for series")
		return nil, nil
	}

	obs := make([]models.Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		if o.Value == "." {
			continue
		}
		value, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		date, err := time.Parse("2006-01-02", o.Date)
		if err != nil {
			continue
		}
		obs = append(obs, models.Observation{Date: date, Value: value})
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return obs, nil
}

func (c *Client) fedFundsRate(ctx context.Context, daysBack int) ([]models.Observation, error) {
	start := time.Now().AddDate(0, 0, -daysBack)
	return c.Series(ctx, seriesFedFunds, start)
}

// CurrentFedRate returns the most recent fed funds rate reading.
func (c *Client) CurrentFedRate(ctx context.Context) (float64, error) {
	obs, err := c.fedFundsRate(ctx, 30)
	if err != nil {
		return 0, err
	}
	if len(obs) == 0 {
		return 0, fmt.Errorf("fred: no recent fed funds observations")
	}
	return obs[len(obs)-1].Value, nil
}

// M2Observations returns monthly M2 money supply readings covering the
// requested lookback window.
func (c *Client) M2Observations(ctx context.Context, monthsBack int) ([]models.Observation, error) {
	start := time.Now().AddDate(0, 0, -monthsBack*30)
	return c.Series(ctx, seriesM2, start)
}

// M2GrowthRate returns the year-over-year M2 growth as a decimal.
func (c *Client) M2GrowthRate(ctx context.Context) (float64, error) {
	obs, err := c.M2Observations(ctx, 15)
	if err != nil {
		return 0, err
	}
	if len(obs) < 13 {
		return 0, fmt.Errorf("fred: insufficient m2 history (%d observations)", len(obs))
	}

	current := obs[len(obs)-1].Value
	yearAgo := obs[len(obs)-13].Value
	if yearAgo == 0 {
		return 0, fmt.Errorf("fred: zero m2 baseline value")
	}
	return (current - yearAgo) / yearAgo, nil
}

// DetectPivot compares the most recent rate readings against the start of
// the lookback window and reports whether policy direction has shifted by
// more than 50 basis points.
func (c *Client) DetectPivot(ctx context.Context, lookbackDays int) (models.PivotInfo, error) {
	obs, err := c.fedFundsRate(ctx, lookbackDays)
	if err != nil {
		return models.PivotInfo{}, err
	}
	if len(obs) < 10 {
		return models.PivotInfo{PivotDetected: false, Reason: "Insufficient data"}, nil
	}

	recent := obs[max(0, len(obs)-30):]
	older := obs[:min(30, len(obs))]

	recentAvg := average(recent)
	olderAvg := average(older)
	rateChange := recentAvg - olderAvg

	direction := models.DirectionNeutral
	if rateChange < -directionThreshold {
		direction = models.DirectionCutting
	} else if rateChange > directionThreshold {
		direction = models.DirectionHiking
	}

	magnitude := rateChange
	if magnitude < 0 {
		magnitude = -magnitude
	}

	return models.PivotInfo{
		PivotDetected: magnitude > pivotThreshold,
		Direction:     direction,
		Magnitude:     magnitude,
		CurrentRate:   recent[len(recent)-1].Value,
		TrendChange:   rateChange,
	}, nil
}

// HealthCheck probes the API by fetching the current rate.
func (c *Client) HealthCheck(ctx context.Context) models.ProviderHealth {
	h := models.ProviderHealth{Provider: "fred", Timestamp: time.Now()}

	rate, err := c.CurrentFedRate(ctx)
	switch {
	case err != nil:
		h.Status = models.StatusError
		h.Error = err.Error()
	case rate == 0:
		h.Status = models.StatusDegraded
	default:
		h.Status = models.StatusHealthy
	}
	return h
}

func average(obs []models.Observation) float64 {
	if len(obs) == 0 {
		return 0
	}
	var sum float64
	for _, o := range obs {
		sum += o.Value
	}
	return sum / float64(len(obs))
}
