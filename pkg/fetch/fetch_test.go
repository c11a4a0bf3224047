package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/duynguyendang/pdfdesk/pkg/common/errors"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	f := NewFetcher(0, 0)
	data, err := f.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestGetBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(0, 0)
	_, err := f.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFetch))
	assert.Contains(t, err.Error(), "404")
}

func TestGetConnectionRefused(t *testing.T) {
	f := NewFetcher(time.Second, 0)
	_, err := f.Get(context.Background(), "http://127.0.0.1:1/never.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFetch))
}

func TestGetOversize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	f := NewFetcher(0, 1024)
	_, err := f.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFetch))
	assert.Contains(t, err.Error(), "limit")
}

func TestGetReusesRecentDownload(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f := NewFetcher(0, 0)
	for i := 0; i < 3; i++ {
		data, err := f.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	}
	assert.Equal(t, int32(1), hits.Load())
}
