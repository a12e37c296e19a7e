package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchImageBytesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	data, err := fetchImageBytes(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestFetchImageBytesRetriesOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	data, err := fetchImageBytes(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), data)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchImageBytesExhaustsAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fetchImageBytes(context.Background(), srv.Client(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download image after 2 attempts")
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchImageBytesHonorsCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetchImageBytes(ctx, srv.Client(), srv.URL)
	assert.Error(t, err)
}
