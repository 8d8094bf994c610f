package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchJSON_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`{"reportData": {"reportSummary": {}}}`))
	}))
	defer srv.Close()

	payload := New(Options{}).FetchJSON(context.Background(), srv.URL)
	obj, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, obj, "reportData")
}

func TestFetchJSON_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	payload := New(Options{}).FetchJSON(context.Background(), srv.URL)
	obj, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "HTTP_500", obj["error"])
	assert.Equal(t, srv.URL, obj["url"])
}

func TestFetchJSON_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	payload := New(Options{}).FetchJSON(context.Background(), srv.URL)
	obj, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INVALID_JSON_CONTENT", obj["error"])
}

func TestFetchJSON_Timeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	f := New(Options{Timeout: 50 * time.Millisecond})
	payload := f.FetchJSON(context.Background(), srv.URL)
	obj, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, obj["error"], "FETCH_FAIL")
}

func TestFetchJSON_ConnectionRefused(t *testing.T) {
	payload := New(Options{}).FetchJSON(context.Background(), "http://127.0.0.1:1/report")
	obj, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, obj["error"], "FETCH_FAIL")
}

func TestFetchJSON_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payload := New(Options{}).FetchJSON(ctx, "http://example.invalid/report")
	obj, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, obj["error"], "FETCH_FAIL")
}

func TestSentinel(t *testing.T) {
	s := Sentinel("HTTP_404", "http://x/1")
	assert.Equal(t, map[string]any{"error": "HTTP_404", "url": "http://x/1"}, s)
}
