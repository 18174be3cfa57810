package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(limit int, window time.Duration) (*Limiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(limit, window)
	l.now = clk.now
	return l, clk
}

func TestLimiter_BurstThenBlock(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	for i := range 3 {
		if !l.Allow("a") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("a") {
		t.Error("4th attempt should be blocked")
	}
	if !l.Allow("b") {
		t.Error("other keys are independent")
	}
}

func TestLimiter_Refills(t *testing.T) {
	l, clk := newTestLimiter(2, time.Minute)
	l.Allow("a")
	l.Allow("a")
	if l.Allow("a") {
		t.Fatal("expected block")
	}
	clk.advance(30 * time.Second)
	if !l.Allow("a") {
		t.Error("one token should refill after window/limit")
	}
}

func TestLimiter_RemainingAndReset(t *testing.T) {
	l, _ := newTestLimiter(5, time.Minute)
	if got := l.Remaining("a"); got != 5 {
		t.Errorf("Remaining = %d, want 5", got)
	}
	l.Allow("a")
	l.Allow("a")
	if got := l.Remaining("a"); got != 3 {
		t.Errorf("Remaining = %d, want 3", got)
	}
	l.Reset("a")
	if got := l.Remaining("a"); got != 5 {
		t.Errorf("Remaining after reset = %d, want 5", got)
	}
}

func TestLimiter_SweepDropsIdleKeys(t *testing.T) {
	l, clk := newTestLimiter(1, time.Minute)
	l.Allow("old")
	clk.advance(90 * time.Second)
	l.Allow("fresh")
	clk.advance(45 * time.Second)
	l.sweep()

	if _, ok := l.buckets["old"]; ok {
		t.Error("idle key should be swept")
	}
	if _, ok := l.buckets["fresh"]; !ok {
		t.Error("recent key should be kept")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"remote addr", "", "", "192.0.2.1:5555", "192.0.2.1"},
		{"no port", "", "", "192.0.2.9", "192.0.2.9"},
		{"ipv6", "", "", "[2001:db8::1]:443", "2001:db8::1"},
		{"forwarded header ignored", "203.0.113.5, 10.0.0.1", "", "10.0.0.2:1234", "10.0.0.2"},
		{"real ip header ignored", "", "198.51.100.7", "10.0.0.2:1234", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_SpoofedForwardingDoesNotReset(t *testing.T) {
	ll := NewLoginLimiter(2, 100)
	for i, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		r := httptest.NewRequest("POST", "/api/admin/auth/login", nil)
		r.Header.Set("X-Forwarded-For", ip)
		ok, msg := ll.Check(r, "")
		if want := i < 2; ok != want {
			t.Fatalf("attempt %d: allowed=%v, want %v", i+1, ok, want)
		}
		if !ok && msg != MsgTooManyFromIP {
			t.Errorf("message: got %q", msg)
		}
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiter(100, 2)
	r := httptest.NewRequest("POST", "/api/admin/auth/login", nil)

	for range 2 {
		if ok, _ := ll.Check(r, "Ops@Example.com"); !ok {
			t.Fatal("expected allowed")
		}
	}
	ok, msg := ll.Check(r, "ops@example.com")
	if ok || msg != MsgTooManyForAccount {
		t.Errorf("expected account block, got ok=%v msg=%q", ok, msg)
	}

	ll.ResetEmail("OPS@example.com")
	if ok, _ := ll.Check(r, "ops@example.com"); !ok {
		t.Error("expected allowed after reset")
	}
}

func TestLoginLimiter_IPBudget(t *testing.T) {
	ll := NewLoginLimiter(1, 50)
	r := httptest.NewRequest("POST", "/api/admin/auth/login", nil)
	if ok, _ := ll.Check(r, "a@example.com"); !ok {
		t.Fatal("expected first attempt allowed")
	}
	ok, msg := ll.Check(r, "b@example.com")
	if ok || msg != MsgTooManyFromIP {
		t.Errorf("expected IP block, got ok=%v msg=%q", ok, msg)
	}
}
