package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, max int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLimiter(client, "ratelimit:auth", max, time.Minute), mr
}

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func do(h http.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestMiddleware_LimitsPerClient(t *testing.T) {
	l, _ := newLimiter(t, 2)
	h := l.Middleware(ok)

	assert.Equal(t, http.StatusOK, do(h, "10.0.0.1:5000").Code)
	rec := do(h, "10.0.0.1:5001")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = do(h, "10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")

	assert.Equal(t, http.StatusOK, do(h, "10.0.0.2:5000").Code)
}

func TestAllow_WindowSlides(t *testing.T) {
	l, _ := newLimiter(t, 1)
	current := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	allowed, _, _, err := l.Allow(t.Context(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, _, err = l.Allow(t.Context(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	current = current.Add(2 * time.Minute)
	allowed, _, _, err = l.Allow(t.Context(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMiddleware_PassThrough(t *testing.T) {
	disabled := NewLimiter(nil, "ratelimit:auth", 1, time.Minute)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(disabled.Middleware(ok), "10.0.0.1:1").Code)
	}

	l, mr := newLimiter(t, 1)
	mr.Close()
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(l.Middleware(ok), "10.0.0.1:1").Code)
	}
}
