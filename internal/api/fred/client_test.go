package fred

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	platformhttp "github.com/Alias1177/Accumulator/internal/platform/http"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient("test-key", platformhttp.NewClient(platformhttp.ClientOptions{
		Timeout:        2 * time.Second,
		RequestsPerSec: 100,
	}))
	c.baseURL = server.URL
	return c
}

func TestSeriesParsesAndSortsObservations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("series_id"); got != "DFF" {
			t.Errorf("series_id = %q, want DFF", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q, want test-key", got)
		}
		// descending order with a missing value, as FRED returns it
		fmt.Fprint(w, `{"observations": [
			{"date": "2026-08-28", "value": "4.25"},
			{"date": "2026-08-27", "value": "."},
			{"date": "2026-08-26", "value": "4.50"}
		]}`)
	})

	obs, err := c.Series(context.Background(), "DFF", time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(obs) != 2 {
		t.Fatalf("observations = %d, want 2 (missing value dropped)", len(obs))
	}
	if !obs[0].Date.Before(obs[1].Date) {
		t.Error("observations not sorted ascending by date")
	}
	if obs[1].Value != 4.25 {
		t.Errorf("latest value = %v, want 4.25", obs[1].Value)
	}
}

func TestCurrentFedRate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"observations": [
			{"date": "2026-08-28", "value": "4.25"},
			{"date": "2026-08-27", "value": "4.50"}
		]}`)
	})

	rate, err := c.CurrentFedRate(context.Background())
	if err != nil {
		t.Fatalf("CurrentFedRate: %v", err)
	}
	if rate != 4.25 {
		t.Errorf("rate = %v, want 4.25 (most recent)", rate)
	}
}

func TestM2GrowthRate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, m2Body(14, 20000, 150))
	})

	growth, err := c.M2GrowthRate(context.Background())
	if err != nil {
		t.Fatalf("M2GrowthRate: %v", err)
	}
	// value 13 months back is 20150, latest is 21950
	want := (21950.0 - 20150.0) / 20150.0
	if math.Abs(growth-want) > 1e-9 {
		t.Errorf("growth = %v, want %v", growth, want)
	}
}

func TestM2GrowthRateInsufficientHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, m2Body(6, 20000, 150))
	})

	if _, err := c.M2GrowthRate(context.Background()); err == nil {
		t.Error("expected error with short m2 history")
	}
}

func TestDetectPivotCutting(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// 60 daily readings stepping down from 5.0 to 3.5
		body := `{"observations": [`
		for i := 0; i < 60; i++ {
			if i > 0 {
				body += ","
			}
			date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
			value := 5.0 - float64(i)*0.025
			body += fmt.Sprintf(`{"date": %q, "value": "%.3f"}`, date.Format("2006-01-02"), value)
		}
		body += `]}`
		fmt.Fprint(w, body)
	})

	pivot, err := c.DetectPivot(context.Background(), 180)
	if err != nil {
		t.Fatalf("DetectPivot: %v", err)
	}
	if !pivot.PivotDetected {
		t.Error("expected pivot with a 1.5 point decline")
	}
	if pivot.Direction != "cutting" {
		t.Errorf("direction = %q, want cutting", pivot.Direction)
	}
	if pivot.TrendChange >= 0 {
		t.Errorf("trend change = %v, want negative", pivot.TrendChange)
	}
}

func TestDetectPivotInsufficientData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"observations": [{"date": "2026-08-28", "value": "4.25"}]}`)
	})

	pivot, err := c.DetectPivot(context.Background(), 180)
	if err != nil {
		t.Fatalf("DetectPivot: %v", err)
	}
	if pivot.PivotDetected {
		t.Error("pivot must not be detected with one observation")
	}
	if pivot.Reason != "Insufficient data" {
		t.Errorf("reason = %q, want Insufficient data", pivot.Reason)
	}
}

func m2Body(n int, base, step float64) string {
	body := `{"observations": [`
	for i := 0; i < n; i++ {
		if i > 0 {
			body += ","
		}
		date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		body += fmt.Sprintf(`{"date": %q, "value": "%.1f"}`, date.Format("2006-01-02"), base+float64(i)*step)
	}
	return body + `]}`
}
