// Package analyze answers one question about one document in one model call.
// It is the non-agentic path: no cache, no capability table, no loop.
package analyze

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/chat"
	"github.com/duynguyendang/pdfdesk/pkg/fetch"
	"github.com/duynguyendang/pdfdesk/pkg/models"
)

// Analyzer performs direct single-call document analysis.
type Analyzer struct {
	model   models.Model
	fetcher *fetch.Fetcher
}

// New creates an Analyzer.
func New(model models.Model, fetcher *fetch.Fetcher) *Analyzer {
	return &Analyzer{model: model, fetcher: fetcher}
}

// FromURL downloads the document and asks a single question about it.
func (a *Analyzer) FromURL(ctx context.Context, url, question string) (string, error) {
	data, err := a.fetcher.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return a.FromBase64(ctx, base64.StdEncoding.EncodeToString(data), question)
}

// FromFile reads a local document and asks a single question about it.
func (a *Analyzer) FromFile(ctx context.Context, path, question string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperrors.ErrNotFound, path, err)
	}
	return a.FromBase64(ctx, base64.StdEncoding.EncodeToString(data), question)
}

// FromBase64 sends already-encoded document data plus the question in one
// request and returns the model's textual answer.
func (a *Analyzer) FromBase64(ctx context.Context, data, question string) (string, error) {
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return "", fmt.Errorf("%w: invalid base64 encoding: %v", apperrors.ErrValidation, err)
	}

	resp, err := a.model.Complete(ctx, models.Request{
		Messages: []chat.Message{{
			Role: chat.RoleUser,
			Blocks: []chat.Block{
				{
					Type:     chat.BlockDocument,
					Document: &chat.DocumentBlock{Data: data, MediaType: "application/pdf"},
				},
				chat.TextBlock(question),
			},
		}},
	})
	if err != nil {
		return "", err
	}
	return resp.Message.Text(), nil
}
