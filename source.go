package glean

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Source resolves content references into handles. It performs local file
// I/O and, for remote URLs, a single reachability probe; nothing else.
type Source struct {
	httpClient *http.Client
	log        *slog.Logger
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithSourceHTTPClient overrides the client used for URL reachability probes.
func WithSourceHTTPClient(c *http.Client) SourceOption {
	return func(s *Source) { s.httpClient = c }
}

// WithSourceLogger lets the caller supply their own logger.
func WithSourceLogger(log *slog.Logger) SourceOption {
	return func(s *Source) { s.log = log }
}

// NewSource creates a Source with a 15 second probe timeout.
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve turns a reference into a content handle. A reference with an http
// or https scheme resolves as a remote URL; a reference that looks like a
// path (separator or file extension) must exist on disk; anything else is
// taken as raw text.
func (s *Source) Resolve(ctx context.Context, reference string) (*ContentHandle, error) {
	if reference == "" {
		return nil, fmt.Errorf("resolve: %w", ErrEmptyReference)
	}
	if u, err := url.Parse(reference); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return s.ResolveURL(ctx, reference)
	}
	if looksLikePath(reference) {
		return s.ResolveFile(reference)
	}
	return s.ResolveText(reference)
}

// ResolveText wraps an in-memory string in a ready text handle.
func (s *Source) ResolveText(text string) (*ContentHandle, error) {
	if text == "" {
		return nil, fmt.Errorf("resolve text: %w", ErrEmptyReference)
	}
	return &ContentHandle{
		ID:       uuid.NewString(),
		Kind:     KindText,
		State:    StateReady,
		MIMEType: "text/plain",
		Text:     text,
	}, nil
}

// ResolveFile stats a local file and classifies it by sniffing its content.
// Images are read inline; documents, audio and video keep the path and start
// pending, to be uploaded by the Poller.
func (s *Source) ResolveFile(path string) (*ContentHandle, error) {
	if path == "" {
		return nil, fmt.Errorf("resolve file: %w", ErrEmptyReference)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &UnresolvedReferenceError{Reference: path, Cause: err}
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, &UnresolvedReferenceError{Reference: path, Cause: err}
	}
	mime := mtype.String()
	kind := kindFromMIME(mime)
	s.log.Debug("resolved file", "path", path, "mime_type", mime, "kind", kind)

	h := &ContentHandle{
		ID:       uuid.NewString(),
		Kind:     kind,
		MIMEType: mime,
		Path:     path,
	}
	if kind == KindImage {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &UnresolvedReferenceError{Reference: path, Cause: err}
		}
		h.Data = data
		h.State = StateReady
		return h, nil
	}
	h.State = StatePending
	return h, nil
}

// ResolveURL probes a remote URL with a HEAD request and returns a ready
// remote-url handle. The media itself is never downloaded; the generation
// collaborator fetches it by URI.
func (s *Source) ResolveURL(ctx context.Context, rawURL string) (*ContentHandle, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("resolve url: %w", ErrEmptyReference)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, &UnresolvedReferenceError{Reference: rawURL, Cause: err}
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &UnresolvedReferenceError{Reference: rawURL, Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, &UnresolvedReferenceError{
			Reference: rawURL,
			Cause:     fmt.Errorf("status %d", resp.StatusCode),
		}
	}
	return &ContentHandle{
		ID:       uuid.NewString(),
		Kind:     KindRemoteURL,
		State:    StateReady,
		MIMEType: resp.Header.Get("Content-Type"),
		URI:      rawURL,
	}, nil
}

func kindFromMIME(mime string) Kind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "audio/"):
		return KindAudio
	case strings.HasPrefix(mime, "video/"):
		return KindVideo
	default:
		return KindDocument
	}
}

// looksLikePath distinguishes file references from raw text. A separator is
// decisive; otherwise a short, spaceless token with a real extension wins.
func looksLikePath(ref string) bool {
	if strings.ContainsRune(ref, os.PathSeparator) || strings.Contains(ref, "/") {
		return true
	}
	if strings.ContainsAny(ref, " \t\n") {
		return false
	}
	ext := filepath.Ext(ref)
	return len(ext) > 1
}
