package glean

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *Result {
	t.Helper()
	sch := MustSchemaOf[Company](PurposeCompanies)
	records, n, err := sch.decode([]byte(`[
		{"name": "Nvidia", "public": true, "symbol": "NVDA", "long": true},
		{"name": "Anduril", "public": false}
	]`))
	require.NoError(t, err)
	return &Result{records: records, count: n}
}

func TestConsoleSink_Records(t *testing.T) {
	var buf strings.Builder
	sink := &ConsoleSink{Out: &buf}

	require.NoError(t, sink.Present(sampleResult(t)))
	out := buf.String()

	assert.Contains(t, out, "--- record 1 ---")
	assert.Contains(t, out, "--- record 2 ---")
	assert.Contains(t, out, "name: Nvidia")
	assert.Contains(t, out, "symbol: NVDA")
	assert.Contains(t, out, "public: false")
	assert.NotContains(t, out, "long: \n", "nil optional fields are omitted entirely")
}

func TestConsoleSink_JSON(t *testing.T) {
	var buf strings.Builder
	sink := &ConsoleSink{Out: &buf, AsJSON: true}

	require.NoError(t, sink.Present(sampleResult(t)))
	out := buf.String()
	assert.Contains(t, out, `"name": "Nvidia"`)
	assert.Contains(t, out, `"symbol": "NVDA"`)
}

func TestConsoleSink_UnstructuredText(t *testing.T) {
	var buf strings.Builder
	sink := &ConsoleSink{Out: &buf}

	require.NoError(t, sink.Present(&Result{Text: "free-form summary"}))
	assert.Equal(t, "free-form summary\n", buf.String())
}

func TestConsoleSink_NestedRecords(t *testing.T) {
	sch := MustSingleSchemaOf[GuruReport](PurposeGuru)
	records, n, err := sch.decode([]byte(`{
		"who": "Jim Example",
		"background": "Macro strategist",
		"predictions": [
			{"who": "Jim Example", "company_or_asset_class": "Nvidia", "symbol": "NVDA", "timestamp": "12:34", "prediction": "Up 50%"}
		]
	}`))
	require.NoError(t, err)

	var buf strings.Builder
	sink := &ConsoleSink{Out: &buf}
	require.NoError(t, sink.Present(&Result{records: records, count: n}))

	out := buf.String()
	assert.Contains(t, out, "who: Jim Example")
	assert.Contains(t, out, "predictions:")
	assert.Contains(t, out, "symbol: NVDA")
}

func TestConsoleSink_NilResult(t *testing.T) {
	assert.Error(t, NewConsoleSink().Present(nil))
}

func TestRenderPriceChart(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var points []PricePoint
	for i := 0; i < 120; i++ {
		points = append(points, PricePoint{
			Date:  start.AddDate(0, 0, i*3),
			Close: 100 + float64(i),
		})
	}

	chart := RenderPriceChart(points, 60, 12)
	require.NotEmpty(t, chart)

	lines := strings.Split(strings.TrimRight(chart, "\n"), "\n")
	assert.Len(t, lines, 14, "12 chart rows plus axis and date line")
	assert.Contains(t, lines[0], "$", "top row carries a price label")
	assert.Contains(t, lines[13], "Mar 2024")

	t.Run("degenerate inputs", func(t *testing.T) {
		assert.Empty(t, RenderPriceChart(nil, 60, 12))
		assert.Empty(t, RenderPriceChart(points[:1], 60, 12))
		assert.Empty(t, RenderPriceChart(points, 4, 12), "too narrow to draw")
	})

	t.Run("flat series", func(t *testing.T) {
		flat := []PricePoint{
			{Date: start, Close: 50},
			{Date: start.AddDate(0, 1, 0), Close: 50},
			{Date: start.AddDate(0, 2, 0), Close: 50},
		}
		assert.NotEmpty(t, RenderPriceChart(flat, 30, 8))
	})
}
