// Package loader populates the document store from URLs, local files, and
// caller-supplied base64 payloads.
//
// Loader methods never return a bare error to their immediate consumer: the
// consumer is a model working through a tool result, so every outcome comes
// back as a Result whose Message is safe to hand to the model verbatim. The
// Err field carries the underlying taxonomy error for boundaries (REST, MCP)
// that need a structured failure instead of prose.
package loader

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/docstore"
	"github.com/duynguyendang/pdfdesk/pkg/fetch"
)

// Result is the outcome of one load attempt.
type Result struct {
	// Identifier names the cache entry on success, "" on failure.
	Identifier string
	// Message is the human/model-readable status line.
	Message string
	// Err is nil on success and a taxonomy error otherwise.
	Err error
}

// Loader writes fetched documents into a Store.
type Loader struct {
	store   *docstore.Store
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// New creates a Loader backed by the given store and fetcher.
func New(store *docstore.Store, fetcher *fetch.Fetcher) *Loader {
	return &Loader{
		store:   store,
		fetcher: fetcher,
		logger:  slog.Default().With("component", "loader"),
	}
}

// Store exposes the underlying document store.
func (l *Loader) Store() *docstore.Store {
	return l.store
}

// FromURL downloads a PDF and caches it under the URL itself. The cache is
// written only after the download fully succeeds, so a cancelled or failed
// fetch never leaves a partial entry behind.
func (l *Loader) FromURL(ctx context.Context, url string) Result {
	data, err := l.fetcher.Get(ctx, url)
	if err != nil {
		l.logger.Warn("url load failed", "url", url, "error", err)
		return Result{
			Message: fmt.Sprintf("Failed to load PDF: %v", err),
			Err:     err,
		}
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	if err := l.store.Put(url, encoded); err != nil {
		return Result{Message: fmt.Sprintf("Failed to load PDF: %v", err), Err: err}
	}

	l.logger.Info("loaded pdf from url", "url", url, "bytes", len(data))
	return Result{
		Identifier: url,
		Message:    fmt.Sprintf("Successfully loaded PDF from URL. Use this identifier for analysis: %s", url),
	}
}

// FromFile reads a local PDF and caches it under its path string.
func (l *Loader) FromFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		wrapped := fmt.Errorf("%w: %s: %v", apperrors.ErrNotFound, path, err)
		l.logger.Warn("file load failed", "path", path, "error", err)
		return Result{
			Message: fmt.Sprintf("Failed to load PDF: cannot read %s: %v", path, err),
			Err:     wrapped,
		}
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	if err := l.store.Put(path, encoded); err != nil {
		return Result{Message: fmt.Sprintf("Failed to load PDF: %v", err), Err: err}
	}

	l.logger.Info("loaded pdf from file", "path", path, "bytes", len(data))
	return Result{
		Identifier: path,
		Message:    fmt.Sprintf("Successfully loaded PDF from file. Use this identifier for analysis: %s", path),
	}
}

// FromBase64 caches already-encoded data under a caller-chosen identifier.
// The identifier is required: a base64 blob carries no natural name.
func (l *Loader) FromBase64(data, identifier string) Result {
	if identifier == "" {
		err := fmt.Errorf("%w: identifier is required for base64 data", apperrors.ErrValidation)
		return Result{Message: "Failed to load PDF: an identifier is required for base64 data", Err: err}
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		wrapped := fmt.Errorf("%w: invalid base64 encoding: %v", apperrors.ErrValidation, err)
		return Result{Message: "Failed to load PDF: invalid base64 encoding", Err: wrapped}
	}

	if err := l.store.Put(identifier, data); err != nil {
		return Result{Message: fmt.Sprintf("Failed to load PDF: %v", err), Err: err}
	}

	l.logger.Info("loaded pdf from base64", "identifier", identifier, "chars", len(data))
	return Result{
		Identifier: identifier,
		Message:    fmt.Sprintf("Successfully loaded PDF from base64 data. Use this identifier for analysis: %s", identifier),
	}
}
