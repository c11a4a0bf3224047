// Package fetch retrieves remote document bytes over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
)

const (
	// DefaultTimeout bounds a single download. The model call gets the same
	// budget so neither a slow document host nor a slow model hangs a request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes caps a downloaded document at 32 MB, the upper end of
	// what the model API accepts for a single PDF.
	DefaultMaxBytes = 32 << 20

	downloadCacheSize = 32
	downloadCacheTTL  = 5 * time.Minute
)

// Fetcher downloads document bytes with a bounded timeout and a size cap.
//
// Repeated loads of the same URL within a short TTL reuse the downloaded
// bytes instead of hitting the network again; the cache entry in the document
// store is still overwritten on every load (last-load-wins).
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	recent   *expirable.LRU[string, []byte]
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher. A zero timeout falls back to DefaultTimeout
// and a zero maxBytes to DefaultMaxBytes.
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		recent:   expirable.NewLRU[string, []byte](downloadCacheSize, nil, downloadCacheTTL),
		logger:   slog.Default().With("component", "fetch"),
	}
}

// Get downloads the URL and returns the raw bytes. Redirects are followed.
// All failure modes come back wrapped in apperrors.ErrFetch.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if data, ok := f.recent.Get(url); ok {
		f.logger.Debug("download cache hit", "url", url, "bytes", len(data))
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL %s: %v", apperrors.ErrFetch, url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d for %s", apperrors.ErrFetch, resp.StatusCode, url)
	}

	// Read one byte past the cap so an oversize body is distinguishable from
	// one that is exactly at the limit.
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body of %s: %v", apperrors.ErrFetch, url, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d byte limit", apperrors.ErrFetch, url, f.maxBytes)
	}

	f.recent.Add(url, data)
	f.logger.Debug("downloaded document", "url", url, "bytes", len(data))
	return data, nil
}
