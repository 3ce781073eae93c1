package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 10 * time.Second
	maxBodySize    = 4 << 20 // 4 MiB
)

// ErrLoadFailure wraps every fetch failure: missing file, network error,
// non-2xx status, non-text payload.
var ErrLoadFailure = errors.New("source: load failure")

// Source yields the raw bytes of the input file.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// Open returns an HTTPSource for http(s) URLs and a FileSource otherwise.
func Open(location string, timeout time.Duration) Source {
	location = strings.TrimSpace(location)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, timeout)
	}
	return FileSource{Path: location}
}

// FileSource reads the input from the local filesystem.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (f FileSource) Name() string { return f.Path }

// Fetch reads the file, honoring ctx cancellation before the read.
func (f FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	data, err := os.ReadFile(filepath.Clean(f.Path))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrLoadFailure, f.Path, err)
	}
	if len(data) > maxBodySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrLoadFailure, f.Path, maxBodySize)
	}
	return checkText(f.Path, data)
}

// HTTPSource fetches the input with a GET request.
type HTTPSource struct {
	URL     string
	Timeout time.Duration
	http    *http.Client
}

// NewHTTPSource creates a source for url. A zero timeout means DefaultTimeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSource{
		URL:     url,
		Timeout: timeout,
		http:    &http.Client{},
	}
}

// Name returns the URL.
func (h *HTTPSource) Name() string { return h.URL }

// Fetch performs the GET and returns the body.
func (h *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrLoadFailure, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	req.Header.Set("User-Agent", "github.com/theirongolddev/estalvi/1.0")

	resp, err := h.http.Do(req) //nolint:gosec // URL is user-configured
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", ErrLoadFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrLoadFailure, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !textContentType(ct) {
		return nil, fmt.Errorf("%w: unexpected content type %q", ErrLoadFailure, ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrLoadFailure, err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrLoadFailure, maxBodySize)
	}
	return checkText(h.URL, body)
}

func textContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	switch {
	case strings.HasPrefix(mt, "text/"):
		return true
	case mt == "application/csv", mt == "application/octet-stream":
		return true
	}
	return false
}

func checkText(name string, data []byte) ([]byte, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%w: %s is not text", ErrLoadFailure, name)
	}
	return data, nil
}
