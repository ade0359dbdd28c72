package site

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestMemoryLimiterFixedWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter()
	l.now = clock.now
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if !l.Allow(ctx, "1.2.3.4", 2, time.Minute) {
			t.Fatalf("request %d rejected", i+1)
		}
	}
	if l.Allow(ctx, "1.2.3.4", 2, time.Minute) {
		t.Fatalf("third request allowed")
	}
	if !l.Allow(ctx, "5.6.7.8", 2, time.Minute) {
		t.Fatalf("other key rejected")
	}

	clock.t = clock.t.Add(time.Minute + time.Second)
	if n := l.Sweep(); n != 2 {
		t.Fatalf("Sweep removed %d buckets", n)
	}
	if !l.Allow(ctx, "1.2.3.4", 2, time.Minute) {
		t.Fatalf("request after window rejected")
	}
}

func TestMemoryLimiterDisabled(t *testing.T) {
	l := NewMemoryLimiter()
	for i := 0; i < 5; i++ {
		if !l.Allow(context.Background(), "k", 0, time.Minute) {
			t.Fatalf("zero limit must allow")
		}
	}
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	l := NewRedisLimiter(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = l.Close() })
	if !l.Allow(context.Background(), "1.2.3.4", 1, time.Minute) {
		t.Fatalf("unreachable redis must not block submissions")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	l := NewMemoryLimiter()
	h := RateLimit(l, 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:4321"
	if got := ClientIP(req); got != "192.0.2.7" {
		t.Fatalf("ClientIP = %q", got)
	}
	req.RemoteAddr = "192.0.2.7"
	if got := ClientIP(req); got != "192.0.2.7" {
		t.Fatalf("ClientIP without port = %q", got)
	}
}
