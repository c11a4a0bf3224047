package loader

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/docstore"
	"github.com/duynguyendang/pdfdesk/pkg/fetch"
)

// minimalPDF is enough of a header to stand in for a real document.
var minimalPDF = []byte("%PDF-1.4\n%%EOF\n")

func newTestLoader() *Loader {
	return New(docstore.NewStore(), fetch.NewFetcher(2*time.Second, 0))
}

func TestFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(minimalPDF)
	}))
	defer srv.Close()

	l := newTestLoader()
	res := l.FromURL(context.Background(), srv.URL)

	require.NoError(t, res.Err)
	assert.Equal(t, srv.URL, res.Identifier)
	assert.Contains(t, res.Message, "Successfully loaded PDF from URL")

	doc, ok := l.Store().Get(srv.URL)
	require.True(t, ok)
	assert.Equal(t, base64.StdEncoding.EncodeToString(minimalPDF), doc.Data)
}

func TestFromURLUnreachableHost(t *testing.T) {
	l := newTestLoader()
	res := l.FromURL(context.Background(), "http://127.0.0.1:1/x.pdf")

	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, apperrors.ErrFetch))
	assert.Contains(t, res.Message, "Failed to load PDF")
	assert.Equal(t, 0, l.Store().Len(), "failed load must not write a cache entry")
}

func TestFromURLBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	l := newTestLoader()
	res := l.FromURL(context.Background(), srv.URL)

	require.Error(t, res.Err)
	assert.Contains(t, res.Message, "Failed to load PDF")
	assert.Equal(t, 0, l.Store().Len())
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, minimalPDF, 0o644))

	l := newTestLoader()
	res := l.FromFile(path)

	require.NoError(t, res.Err)
	assert.Equal(t, path, res.Identifier)

	doc, ok := l.Store().Get(path)
	require.True(t, ok)
	assert.Equal(t, base64.StdEncoding.EncodeToString(minimalPDF), doc.Data)
}

func TestFromFileMissing(t *testing.T) {
	l := newTestLoader()
	res := l.FromFile("/nonexistent/doc.pdf")

	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, apperrors.ErrNotFound))
	assert.Contains(t, res.Message, "Failed to load PDF")
	assert.Equal(t, 0, l.Store().Len())
}

func TestFromBase64(t *testing.T) {
	l := newTestLoader()
	encoded := base64.StdEncoding.EncodeToString(minimalPDF)

	res := l.FromBase64(encoded, "doc1")
	require.NoError(t, res.Err)
	assert.Equal(t, "doc1", res.Identifier)
	assert.Equal(t, []string{"doc1"}, l.Store().List())

	assert.True(t, l.Store().Remove("doc1"))
	assert.Empty(t, l.Store().List())
}

func TestFromBase64Invalid(t *testing.T) {
	l := newTestLoader()

	res := l.FromBase64("not!!valid!!base64", "doc1")
	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, apperrors.ErrValidation))
	assert.Equal(t, 0, l.Store().Len())
}

func TestFromBase64RequiresIdentifier(t *testing.T) {
	l := newTestLoader()

	res := l.FromBase64(base64.StdEncoding.EncodeToString(minimalPDF), "")
	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, apperrors.ErrValidation))
	assert.Equal(t, 0, l.Store().Len())
}
