package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynguyendang/pdfdesk/pkg/docstore"
	"github.com/duynguyendang/pdfdesk/pkg/fetch"
	"github.com/duynguyendang/pdfdesk/pkg/loader"
	"github.com/duynguyendang/pdfdesk/pkg/models"
)

func newTestServer(t *testing.T, script ...models.Response) (*Server, *models.ScriptedModel) {
	t.Helper()
	scripted := models.NewScriptedModel(script...)
	l := loader.New(docstore.NewStore(), fetch.NewFetcher(fetch.DefaultTimeout, fetch.DefaultMaxBytes))
	s := NewServer(l, func(ctx context.Context) (models.Model, error) {
		return scripted, nil
	})
	return s, scripted
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEmpty(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	h := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", h.Status)
	assert.False(t, h.AgentInitialized)
	assert.Equal(t, 0, h.PDFCount)
}

func TestLoadListRemoveLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	data := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 report"))

	rec := doJSON(t, s, http.MethodPost, "/pdfs", LoadPDFRequest{
		Base64Data: data,
		Identifier: "r1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	loaded := decode[LoadPDFResponse](t, rec)
	assert.True(t, loaded.Success)
	assert.Equal(t, "r1", loaded.Identifier)

	rec = doJSON(t, s, http.MethodGet, "/pdfs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[PDFListResponse](t, rec)
	assert.Equal(t, []string{"r1"}, list.PDFs)
	assert.Equal(t, 1, list.Count)

	rec = doJSON(t, s, http.MethodDelete, "/pdfs/r1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	removed := decode[LoadPDFResponse](t, rec)
	assert.True(t, removed.Success)

	rec = doJSON(t, s, http.MethodGet, "/pdfs", nil)
	list = decode[PDFListResponse](t, rec)
	assert.Equal(t, 0, list.Count)
}

func TestLoadPDFFromURL(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 remote"))
	}))
	defer backend.Close()

	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/pdfs", LoadPDFRequest{URL: backend.URL + "/doc.pdf"})
	require.Equal(t, http.StatusOK, rec.Code)
	loaded := decode[LoadPDFResponse](t, rec)
	assert.True(t, loaded.Success)
	assert.Equal(t, backend.URL+"/doc.pdf", loaded.Identifier)
}

func TestLoadPDFValidation(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/pdfs", LoadPDFRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/pdfs", LoadPDFRequest{
		URL:        "https://example.com/a.pdf",
		Base64Data: "aGVsbG8=",
		Identifier: "both",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Base64 without an identifier.
	rec = doJSON(t, s, http.MethodPost, "/pdfs", LoadPDFRequest{Base64Data: "aGVsbG8="})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveMissingSuggests(t *testing.T) {
	s, _ := newTestServer(t)
	data := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))
	rec := doJSON(t, s, http.MethodPost, "/pdfs", LoadPDFRequest{Base64Data: data, Identifier: "quarterly-report"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/pdfs/quarterly-reprot", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[LoadPDFResponse](t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "quarterly-report")
}

func TestClearPDFs(t *testing.T) {
	s, _ := newTestServer(t)
	data := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))
	for _, id := range []string{"a", "b"} {
		rec := doJSON(t, s, http.MethodPost, "/pdfs", LoadPDFRequest{Base64Data: data, Identifier: id})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, s, http.MethodDelete, "/pdfs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[LoadPDFResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "2")

	rec = doJSON(t, s, http.MethodGet, "/pdfs", nil)
	assert.Equal(t, 0, decode[PDFListResponse](t, rec).Count)
}

func TestChat(t *testing.T) {
	s, scripted := newTestServer(t, models.TextResponse("The document covers three topics."))

	rec := doJSON(t, s, http.MethodPost, "/chat", ChatRequest{Message: "summarize the report"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ChatResponse](t, rec)
	assert.Equal(t, "The document covers three topics.", resp.Response)
	assert.Equal(t, 0, resp.PDFCount)
	assert.Equal(t, 1, scripted.Calls())

	// The agent is constructed lazily on first chat.
	health := decode[HealthResponse](t, doJSON(t, s, http.MethodGet, "/health", nil))
	assert.True(t, health.AgentInitialized)
}

func TestChatValidation(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/chat", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
