package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestLimiterStoreReusesEntries(t *testing.T) {
	store := newRateLimiterStore(nil)
	a := store.getLimiter("10.0.0.1")
	b := store.getLimiter("10.0.0.1")
	if a != b {
		t.Error("same IP got two distinct limiters")
	}
	if c := store.getLimiter("10.0.0.2"); c == a {
		t.Error("distinct IPs share a limiter")
	}
}

func TestLimiterStoreSweep(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	store := newRateLimiterStore(func() time.Time { return now })

	store.getLimiter("10.0.0.1")
	store.getLimiter("10.0.0.2")

	now = now.Add(30 * time.Minute)
	store.getLimiter("10.0.0.2")

	now = now.Add(45 * time.Minute)
	if removed := store.sweep(time.Hour); removed != 1 {
		t.Errorf("sweep removed %d entries, want 1", removed)
	}
	if _, ok := store.limiters["10.0.0.2"]; !ok {
		t.Error("recently seen limiter was swept")
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded chain wins", "203.0.113.7, 10.0.0.1", "198.51.100.2", "192.0.2.1:4321", "203.0.113.7"},
		{"real ip next", "", "198.51.100.2", "192.0.2.1:4321", "198.51.100.2"},
		{"remote addr fallback", "", "", "192.0.2.1:4321", "192.0.2.1"},
		{"unparseable remote addr passed through", "", "", "unix-socket", "unix-socket"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				c.Request.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				c.Request.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := getClientIP(c); got != tc.want {
				t.Errorf("getClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}
