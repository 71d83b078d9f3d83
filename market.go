package glean

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// PricePoint is one daily close for a symbol.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// MarketData serves historical daily prices for a ticker symbol.
type MarketData interface {
	History(ctx context.Context, symbol string, start, end time.Time) ([]PricePoint, error)
}

// PriceSummary condenses a price series into its endpoints and the
// percentage return between them.
type PriceSummary struct {
	Start     PricePoint
	End       PricePoint
	ReturnPct float64
}

// SummarizePrices computes the first/last close and the return between
// them. The series must be non-empty and sorted ascending by date.
func SummarizePrices(points []PricePoint) (PriceSummary, error) {
	if len(points) == 0 {
		return PriceSummary{}, fmt.Errorf("summarize prices: empty series")
	}
	first := points[0]
	last := points[len(points)-1]
	if first.Close == 0 {
		return PriceSummary{}, fmt.Errorf("summarize prices: zero starting close")
	}
	return PriceSummary{
		Start:     first,
		End:       last,
		ReturnPct: (last.Close/first.Close - 1) * 100,
	}, nil
}

const yahooChartBaseURL = "https://query1.finance.yahoo.com"

// YahooMarket fetches daily closes from the Yahoo Finance chart endpoint.
type YahooMarket struct {
	httpClient *http.Client
	baseURL    string
}

// MarketOption configures a YahooMarket.
type MarketOption func(*YahooMarket)

// WithMarketHTTPClient overrides the HTTP client.
func WithMarketHTTPClient(c *http.Client) MarketOption {
	return func(m *YahooMarket) { m.httpClient = c }
}

// WithMarketBaseURL points the client at a different host.
func WithMarketBaseURL(base string) MarketOption {
	return func(m *YahooMarket) { m.baseURL = base }
}

// NewYahooMarket builds a market data client with sensible defaults.
func NewYahooMarket(opts ...MarketOption) *YahooMarket {
	m := &YahooMarket{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    yahooChartBaseURL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns daily closes for symbol between start and end, sorted
// ascending. Days with a zero close are skipped.
func (m *YahooMarket) History(ctx context.Context, symbol string, start, end time.Time) ([]PricePoint, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", m.baseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; glean/1.0)")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var chart yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("history %s: decode: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("history %s: %s: %s", symbol, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("history %s: no chart result", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("history %s: no quote data", symbol)
	}
	closes := result.Indicators.Quote[0].Close

	points := make([]PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == 0 {
			continue
		}
		points = append(points, PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: closes[i],
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	if len(points) == 0 {
		return nil, fmt.Errorf("history %s: no usable closes", symbol)
	}
	return points, nil
}
