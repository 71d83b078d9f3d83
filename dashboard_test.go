package glean

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMetadata struct {
	info *VideoInfo
	err  error
}

func (s *stubMetadata) Lookup(ctx context.Context, videoURL string) (*VideoInfo, error) {
	return s.info, s.err
}

type stubMarket struct {
	points  map[string][]PricePoint
	history []string
}

func (s *stubMarket) History(ctx context.Context, symbol string, start, end time.Time) ([]PricePoint, error) {
	s.history = append(s.history, symbol)
	points, ok := s.points[symbol]
	if !ok {
		return nil, errors.New("no data")
	}
	return points, nil
}

const guruResponse = `{
	"who": "Jim Example",
	"background": "Former hedge fund manager",
	"predictions": [
		{"who": "Jim Example", "company_or_asset_class": "Nvidia", "symbol": "NVDA", "timestamp": "02:10", "prediction": "Doubles within a year"},
		{"who": "Jim Example", "company_or_asset_class": "interest rates", "symbol": "", "timestamp": "05:45", "prediction": "Two cuts before December"}
	]
}`

func testDashboard(t *testing.T, inv Invoker, meta VideoMetadata, market MarketData, out *strings.Builder) *Dashboard {
	t.Helper()
	pipe := testPipeline(inv)
	d, err := NewDashboard(pipe,
		WithDashboardMetadata(meta),
		WithDashboardMarket(market),
		WithDashboardOutput(out))
	require.NoError(t, err)
	return d
}

func TestDashboard_HandleURL(t *testing.T) {
	upload := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	meta := &stubMetadata{info: &VideoInfo{
		Title:      "Market Outlook 2024",
		UploadDate: upload,
	}}
	market := &stubMarket{points: map[string][]PricePoint{
		"NVDA": {
			{Date: upload, Close: 88},
			{Date: upload.AddDate(0, 6, 0), Close: 120},
			{Date: upload.AddDate(1, 0, 0), Close: 132},
		},
	}}
	inv := &StubInvoker{Responses: [][]byte{[]byte(guruResponse)}}

	var out strings.Builder
	d := testDashboard(t, inv, meta, market, &out)

	report, err := d.HandleURL(context.Background(), "https://video.example/watch?v=abc")
	require.NoError(t, err)
	assert.Equal(t, "Jim Example", report.Who)
	require.Len(t, report.Predictions, 2)

	assert.Equal(t, []string{"NVDA"}, market.history,
		"price history is fetched only for predictions that carry a symbol")

	rendered := out.String()
	assert.Contains(t, rendered, "Market Outlook 2024")
	assert.Contains(t, rendered, "Former hedge fund manager")
	assert.Contains(t, rendered, "1. [02:10] Doubles within a year")
	assert.Contains(t, rendered, "2. [05:45] Two cuts before December")
	assert.Contains(t, rendered, "NVDA: $88.00 → $132.00 (+50.0%)")
	assert.Contains(t, rendered, "$", "a chart is rendered for the scored symbol")

	require.Len(t, inv.Calls, 1)
	assert.Len(t, inv.Calls[0].Parts, 2, "video URI part plus the instruction")
}

func TestDashboard_MissingHistoryIsNotFatal(t *testing.T) {
	upload := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	meta := &stubMetadata{info: &VideoInfo{Title: "Clip", UploadDate: upload}}
	market := &stubMarket{}
	inv := &StubInvoker{Responses: [][]byte{[]byte(guruResponse)}}

	var out strings.Builder
	d := testDashboard(t, inv, meta, market, &out)

	report, err := d.HandleURL(context.Background(), "https://video.example/watch?v=abc")
	require.NoError(t, err, "a symbol without price data still yields a report")
	assert.Len(t, report.Predictions, 2)
	assert.Contains(t, out.String(), "NVDA: price history unavailable")
}

func TestDashboard_MetadataFailure(t *testing.T) {
	meta := &stubMetadata{err: errors.New("page not reachable")}
	var out strings.Builder
	d := testDashboard(t, &StubInvoker{}, meta, &stubMarket{}, &out)

	_, err := d.HandleURL(context.Background(), "https://video.example/gone")
	assert.ErrorContains(t, err, "page not reachable")
}

func TestDashboard_MissingUploadDate(t *testing.T) {
	meta := &stubMetadata{info: &VideoInfo{Title: "Clip"}}
	var out strings.Builder
	d := testDashboard(t, &StubInvoker{}, meta, &stubMarket{}, &out)

	_, err := d.HandleURL(context.Background(), "https://video.example/watch?v=abc")
	assert.ErrorContains(t, err, "no upload date")
}

func TestDashboard_ExtractionFailure(t *testing.T) {
	meta := &stubMetadata{info: &VideoInfo{Title: "Clip", UploadDate: time.Now().AddDate(0, -6, 0)}}
	inv := &StubInvoker{Err: errors.New("model unavailable")}
	var out strings.Builder
	d := testDashboard(t, inv, meta, &stubMarket{}, &out)

	_, err := d.HandleURL(context.Background(), "https://video.example/watch?v=abc")
	assert.ErrorContains(t, err, "model unavailable")
}
