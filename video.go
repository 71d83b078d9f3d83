package glean

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// VideoInfo is the page metadata for a hosted video.
type VideoInfo struct {
	Title        string
	ThumbnailURL string
	UploadDate   time.Time
}

// VideoMetadata looks up metadata for a video URL.
type VideoMetadata interface {
	Lookup(ctx context.Context, videoURL string) (*VideoInfo, error)
}

// WatchPageMetadata scrapes metadata from the video watch page itself
// using the schema.org microdata markup video hosts embed.
type WatchPageMetadata struct {
	httpClient *http.Client
}

// VideoOption configures a WatchPageMetadata.
type VideoOption func(*WatchPageMetadata)

// WithVideoHTTPClient overrides the HTTP client.
func WithVideoHTTPClient(c *http.Client) VideoOption {
	return func(w *WatchPageMetadata) { w.httpClient = c }
}

// NewWatchPageMetadata builds a watch-page scraper.
func NewWatchPageMetadata(opts ...VideoOption) *WatchPageMetadata {
	w := &WatchPageMetadata{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Lookup fetches the watch page and extracts title, thumbnail and upload
// date from its microdata tags.
func (w *WatchPageMetadata) Lookup(ctx context.Context, videoURL string) (*VideoInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", videoURL, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; glean/1.0)")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", videoURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup %s: unexpected status %d", videoURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: parse: %w", videoURL, err)
	}

	info := &VideoInfo{}
	if v, ok := doc.Find(`meta[itemprop="name"]`).First().Attr("content"); ok {
		info.Title = strings.TrimSpace(v)
	}
	if info.Title == "" {
		info.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if v, ok := doc.Find(`link[itemprop="thumbnailUrl"]`).First().Attr("href"); ok {
		info.ThumbnailURL = v
	}

	rawDate, ok := doc.Find(`meta[itemprop="uploadDate"]`).First().Attr("content")
	if !ok {
		rawDate, _ = doc.Find(`meta[itemprop="datePublished"]`).First().Attr("content")
	}
	if rawDate != "" {
		info.UploadDate, err = parseUploadDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("lookup %s: %w", videoURL, err)
		}
	}
	if info.Title == "" && info.UploadDate.IsZero() {
		return nil, fmt.Errorf("lookup %s: no video metadata on page", videoURL)
	}
	return info, nil
}

func parseUploadDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse upload date %q: %w", raw, err)
	}
	return t, nil
}
