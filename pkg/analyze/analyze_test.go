package analyze

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
	"github.com/duynguyendang/pdfdesk/pkg/fetch"
	"github.com/duynguyendang/pdfdesk/pkg/models"
)

func TestFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 direct"))
	}))
	defer srv.Close()

	model := models.NewScriptedModel(models.TextResponse("It is a test document."))
	a := New(model, fetch.NewFetcher(2*time.Second, 0))

	answer, err := a.FromURL(context.Background(), srv.URL, "What is this?")
	require.NoError(t, err)
	assert.Equal(t, "It is a test document.", answer)

	// Exactly one call, with the document inlined next to the question.
	require.Equal(t, 1, model.Calls())
	req := model.Requests[0]
	require.Len(t, req.Messages, 1)
	require.Len(t, req.Messages[0].Blocks, 2)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 direct")), req.Messages[0].Blocks[0].Document.Data)
	assert.Empty(t, req.Tools)
}

func TestFromURLFetchError(t *testing.T) {
	model := models.NewScriptedModel()
	a := New(model, fetch.NewFetcher(time.Second, 0))

	_, err := a.FromURL(context.Background(), "http://127.0.0.1:1/x.pdf", "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFetch))
	assert.Equal(t, 0, model.Calls())
}

func TestFromFileMissing(t *testing.T) {
	a := New(models.NewScriptedModel(), fetch.NewFetcher(time.Second, 0))

	_, err := a.FromFile(context.Background(), "/nonexistent.pdf", "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestFromBase64Invalid(t *testing.T) {
	a := New(models.NewScriptedModel(), fetch.NewFetcher(time.Second, 0))

	_, err := a.FromBase64(context.Background(), "!!!", "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
