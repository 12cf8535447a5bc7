package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mkarczewski/keysheet"
	keysheethttp "github.com/mkarczewski/keysheet/http"
	"github.com/mkarczewski/keysheet/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Requests(t *testing.T) {
	t.Parallel()

	t.Run("sets a user agent from the rotation pool", func(t *testing.T) {
		t.Parallel()

		var ua string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte(`["shoes",["running shoes"]]`))
		}))
		defer server.Close()

		source := keysheethttp.NewGoogleSource(keysheethttp.NewClient())
		source.BaseURL = server.URL

		_, err := source.Suggest(context.Background(), "shoes")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ua, "Mozilla/5.0"), "user agent %q not from pool", ua)
	})

	t.Run("classifies network failures as unavailable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused from here on

		source := keysheethttp.NewGoogleSource(keysheethttp.NewClient())
		source.BaseURL = server.URL

		_, err := source.Suggest(context.Background(), "shoes")
		require.Error(t, err)
		assert.Equal(t, keysheet.EUNAVAILABLE, keysheet.ErrorCode(err))
	})

	t.Run("classifies non-200 statuses as upstream errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		source := keysheethttp.NewGoogleSource(keysheethttp.NewClient())
		source.BaseURL = server.URL

		_, err := source.Suggest(context.Background(), "shoes")
		require.Error(t, err)
		assert.Equal(t, keysheet.EUPSTREAM, keysheet.ErrorCode(err))
	})

	t.Run("classifies unparsable payloads as internal errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<!doctype html>not json"))
		}))
		defer server.Close()

		source := keysheethttp.NewGoogleSource(keysheethttp.NewClient())
		source.BaseURL = server.URL

		_, err := source.Suggest(context.Background(), "shoes")
		require.Error(t, err)
		assert.Equal(t, keysheet.EINTERNAL, keysheet.ErrorCode(err))
	})

	t.Run("respects the configured timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`["shoes",[]]`))
		}))
		defer server.Close()

		client := keysheethttp.NewClient(keysheethttp.WithTimeout(10 * time.Millisecond))
		source := keysheethttp.NewGoogleSource(client)
		source.BaseURL = server.URL

		_, err := source.Suggest(context.Background(), "shoes")
		require.Error(t, err)
		assert.Equal(t, keysheet.EUNAVAILABLE, keysheet.ErrorCode(err))
	})

	t.Run("routes requests through the rotated proxy", func(t *testing.T) {
		t.Parallel()

		// The handler sees proxied requests with an absolute request URI.
		var mu sync.Mutex
		var proxied []string
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			proxied = append(proxied, r.URL.Host)
			mu.Unlock()
			_, _ = w.Write([]byte(`["shoes",["running shoes"]]`))
		}))
		defer proxy.Close()

		rotator := &mock.ProxyRotator{NextFn: func() (string, bool) {
			return strings.TrimPrefix(proxy.URL, "http://"), true
		}}
		client := keysheethttp.NewClient(keysheethttp.WithProxies(rotator, keysheet.ProxyHTTPS))
		source := keysheethttp.NewGoogleSource(client)
		source.BaseURL = "http://upstream.invalid/complete/search"

		got, err := source.Suggest(context.Background(), "shoes")
		require.NoError(t, err)
		assert.Equal(t, []string{"running shoes"}, got)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"upstream.invalid"}, proxied)
	})

	t.Run("connects directly when the rotator is empty", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`["shoes",["running shoes"]]`))
		}))
		defer server.Close()

		rotator := &mock.ProxyRotator{NextFn: func() (string, bool) { return "", false }}
		client := keysheethttp.NewClient(keysheethttp.WithProxies(rotator, keysheet.ProxyHTTPS))
		source := keysheethttp.NewGoogleSource(client)
		source.BaseURL = server.URL

		got, err := source.Suggest(context.Background(), "shoes")
		require.NoError(t, err)
		assert.Equal(t, []string{"running shoes"}, got)
	})
}
