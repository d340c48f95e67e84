package directory

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardpost/internal/identity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestEnrichResolvesDisplayData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/42", r.URL.Path)
		assert.Equal(t, "Bot bot-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"42","username":"ana","global_name":"Ana"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "bot-token", 2*time.Second, discardLogger())

	got := c.Enrich(context.Background(), "42")
	assert.Equal(t, identity.Identity{ID: "42", Username: "ana", GlobalName: "Ana"}, got)
	assert.Equal(t, "ana", got.DisplayTag())
}

func TestEnrichDegradesToMinimalIdentity(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "slow upstream",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := New(srv.URL, "bot-token", 50*time.Millisecond, discardLogger())

			got := c.Enrich(context.Background(), "42")
			assert.Equal(t, identity.Identity{ID: "42"}, got)
		})
	}
}

func TestEnrichWithoutBotTokenSkipsLookup(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL, "", time.Second, discardLogger())

	got := c.Enrich(context.Background(), "42")
	assert.Equal(t, identity.Identity{ID: "42"}, got)
	assert.Zero(t, calls.Load())
}

func TestEnrichUnreachableDirectory(t *testing.T) {
	c := New("http://127.0.0.1:1", "bot-token", 100*time.Millisecond, discardLogger())

	got := c.Enrich(context.Background(), "42")
	assert.Equal(t, identity.Identity{ID: "42"}, got)
}

func TestEnrichSurvivesCallerAbort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"42","username":"ana"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "bot-token", time.Second, discardLogger())

	// The lookup is shared by every caller collapsed into the same flight,
	// so one caller's abort must not fail it.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := c.Enrich(ctx, "42")
	assert.Equal(t, identity.Identity{ID: "42", Username: "ana"}, got)
}

func TestEnrichUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"id":"42","username":"ana"}`))
	}))
	defer srv.Close()

	cache := newMemCache()
	c := New(srv.URL, "bot-token", time.Second, discardLogger(), WithCache(cache))

	first := c.Enrich(context.Background(), "42")
	second := c.Enrich(context.Background(), "42")

	require.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "second lookup should be served from cache")
}
