package http

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(limit int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(limit, window)
	rl.now = clock.Now
	return rl, clock
}

func searchRequest(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/feeds/search?q=mars", nil)
	req.RemoteAddr = ip + ":41000"
	return req
}

func TestRateLimiter_Limit(t *testing.T) {
	rl, clock := newTestLimiter(3, time.Minute)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	for i := range 3 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, searchRequest("192.0.2.1"))
		assert.Equal(t, http.StatusOK, rr.Code, "request %d", i)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, searchRequest("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "rate limit exceeded")

	// one token refills every window/limit
	clock.Advance(20 * time.Second)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, searchRequest("192.0.2.1"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)

	ok, _ := rl.allow("192.0.2.1")
	assert.True(t, ok)
	ok, _ = rl.allow("192.0.2.1")
	assert.False(t, ok)
	ok, _ = rl.allow("192.0.2.2")
	assert.True(t, ok)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, clock := newTestLimiter(5, time.Minute)
	rl.allow("192.0.2.1")
	clock.Advance(10 * time.Minute)
	rl.allow("192.0.2.2")

	assert.Equal(t, 1, rl.Cleanup(5*time.Minute))
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(50, time.Hour)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 100 {
		wg.Go(func() {
			if ok, _ := rl.allow("192.0.2.9"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr", "192.0.2.1:1234", "", "", "192.0.2.1"},
		{"forwarded first hop", "10.0.0.1:1234", "203.0.113.7, 10.0.0.2", "", "203.0.113.7"},
		{"real ip", "10.0.0.1:1234", "", "203.0.113.8", "203.0.113.8"},
		{"bad forwarded falls back", "192.0.2.1:1234", "not-an-ip", "", "192.0.2.1"},
		{"ipv6", "[2001:db8::1]:443", "", "", "2001:db8::1"},
		{"no port", "192.0.2.3", "", "", "192.0.2.3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, extractIP(req))
		})
	}
}
