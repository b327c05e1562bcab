package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadExtractsMainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>Menu</nav><article><h1>Solar jobs grow</h1><p>Installers are in demand.</p></article></body></html>`))
	}))
	defer server.Close()

	text, err := NewReader(nil).Read(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, text, "Solar jobs grow")
	assert.Contains(t, text, "Installers are in demand.")
	assert.NotContains(t, text, "Menu")
}

func TestReader_CachesPages(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<html><body><main>cached</main></body></html>`))
	}))
	defer server.Close()

	r := NewReader(&ReaderConfig{CacheTTL: time.Minute})
	for i := 0; i < 3; i++ {
		_, err := r.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())

	r.Invalidate(server.URL)
	_, err := r.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestReader_CacheExpires(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<html><body>x</body></html>`))
	}))
	defer server.Close()

	now := time.Now()
	r := NewReader(&ReaderConfig{CacheTTL: time.Minute})
	r.now = func() time.Time { return now }

	_, _ = r.Fetch(context.Background(), server.URL)
	now = now.Add(2 * time.Minute)
	_, _ = r.Fetch(context.Background(), server.URL)

	assert.Equal(t, int32(2), hits.Load())
}

func TestReader_StatusErrorNotCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	r := NewReader(nil)
	result, err := r.Fetch(context.Background(), server.URL)

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusTooManyRequests, result.StatusCode)
	assert.True(t, IsStatus(err, result))

	_, ok := r.lookup(server.URL)
	assert.False(t, ok)
}

func TestReader_BrowserFallbackForThinPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
	}))
	defer server.Close()

	rendered := "<html><body><main>" + strings.Repeat("Rendered listing text. ", 40) + "</main></body></html>"
	var calls int
	r := NewReader(&ReaderConfig{
		UseBrowser: true,
		Renderer: func(_ context.Context, url string, _ time.Duration) (string, error) {
			calls++
			assert.Equal(t, server.URL, url)
			return rendered, nil
		},
	})

	text, err := r.Read(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, text, "Rendered listing text.")
}

func TestReader_BrowserFallbackOnNetworkError(t *testing.T) {
	r := NewReader(&ReaderConfig{
		UseBrowser: true,
		Renderer: func(context.Context, string, time.Duration) (string, error) {
			return "", errors.New("chrome not installed")
		},
	})

	_, err := r.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")

	var fErr *Error
	require.ErrorAs(t, err, &fErr)
	assert.Contains(t, err.Error(), "browser rendering failed")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefghij", 5))
	assert.Equal(t, "unlimited", Truncate("unlimited", 0))
	// the cut never splits a multi-byte rune
	assert.Equal(t, "a...", Truncate("aé", 2))
}
