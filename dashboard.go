package glean

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Dashboard turns one video URL into a prediction scorecard: it extracts
// the guru's predictions from the video and, for every prediction with a
// ticker symbol, renders the price history since the upload date.
type Dashboard struct {
	pipeline *Pipeline
	metadata VideoMetadata
	market   MarketData
	prompts  *Prompts
	schema   *Schema
	out      io.Writer
	log      *slog.Logger
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithDashboardOutput redirects the rendered report.
func WithDashboardOutput(out io.Writer) DashboardOption {
	return func(d *Dashboard) { d.out = out }
}

// WithDashboardMetadata overrides the video metadata source.
func WithDashboardMetadata(m VideoMetadata) DashboardOption {
	return func(d *Dashboard) { d.metadata = m }
}

// WithDashboardMarket overrides the market data source.
func WithDashboardMarket(m MarketData) DashboardOption {
	return func(d *Dashboard) { d.market = m }
}

// WithDashboardLogger sets the logger.
func WithDashboardLogger(log *slog.Logger) DashboardOption {
	return func(d *Dashboard) { d.log = log }
}

// NewDashboard builds a dashboard over an extraction pipeline.
func NewDashboard(pipe *Pipeline, opts ...DashboardOption) (*Dashboard, error) {
	prompts, err := NewPrompts()
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		pipeline: pipe,
		metadata: NewWatchPageMetadata(),
		market:   NewYahooMarket(),
		prompts:  prompts,
		schema:   MustSingleSchemaOf[GuruReport](PurposeGuru),
		out:      os.Stdout,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// HandleURL extracts and scores the predictions from one video URL.
func (d *Dashboard) HandleURL(ctx context.Context, videoURL string) (*GuruReport, error) {
	info, err := d.metadata.Lookup(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	d.log.Info("video resolved", "title", info.Title, "uploaded", info.UploadDate)

	start := info.UploadDate
	if start.IsZero() {
		return nil, fmt.Errorf("dashboard: %s has no upload date", videoURL)
	}
	end := start.AddDate(1, 0, 0)
	if now := time.Now(); end.After(now) {
		end = now
	}

	instruction, err := d.prompts.Render(PurposeGuru, nil)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	handle := &ContentHandle{
		ID:       videoURL,
		Kind:     KindRemoteURL,
		State:    StateReady,
		MIMEType: "video/*",
		URI:      videoURL,
	}
	res, err := d.pipeline.Extract(ctx, handle, instruction, d.schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	reports := Records[GuruReport](res)
	if len(reports) == 0 {
		return nil, fmt.Errorf("dashboard: no report extracted from %s", videoURL)
	}
	report := reports[0]

	if err := d.render(ctx, info, &report, start, end); err != nil {
		return nil, err
	}
	return &report, nil
}

func (d *Dashboard) render(ctx context.Context, info *VideoInfo, report *GuruReport, start, end time.Time) error {
	fmt.Fprintf(d.out, "%s\n", info.Title)
	fmt.Fprintf(d.out, "%s, %s\n\n", report.Who, report.Background)

	for i, p := range report.Predictions {
		fmt.Fprintf(d.out, "%d. [%s] %s\n", i+1, p.Timestamp, p.Prediction)
		if p.Symbol == "" {
			fmt.Fprintln(d.out)
			continue
		}

		points, err := d.market.History(ctx, p.Symbol, start, end)
		if err != nil {
			d.log.Warn("price history unavailable", "symbol", p.Symbol, "error", err)
			fmt.Fprintf(d.out, "   %s: price history unavailable\n\n", p.Symbol)
			continue
		}
		summary, err := SummarizePrices(points)
		if err != nil {
			d.log.Warn("price summary failed", "symbol", p.Symbol, "error", err)
			continue
		}
		fmt.Fprintf(d.out, "   %s: $%.2f → $%.2f (%+.1f%%)\n",
			p.Symbol, summary.Start.Close, summary.End.Close, summary.ReturnPct)
		if chart := RenderPriceChart(points, 60, 12); chart != "" {
			fmt.Fprintln(d.out, chart)
		}
		fmt.Fprintln(d.out)
	}
	return nil
}
