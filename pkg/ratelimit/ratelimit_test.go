package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowLimits(t *testing.T) {
	rl := NewLoginRateLimiter(3, time.Minute)
	t.Cleanup(rl.Stop)

	for i := 1; i <= 3; i++ {
		if !rl.Allow("203.0.113.7") {
			t.Fatalf("attempt %d rejected before limit", i)
		}
	}
	if rl.Allow("203.0.113.7") {
		t.Fatal("4th attempt allowed past limit")
	}
	// Reddedilen denemeler de sayılır — limit aşımı kalıcıdır
	if rl.Allow("203.0.113.7") {
		t.Fatal("5th attempt allowed past limit")
	}
}

func TestResetReadmits(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute)
	t.Cleanup(rl.Stop)

	rl.Allow("203.0.113.7")
	if rl.Allow("203.0.113.7") {
		t.Fatal("limit not enforced")
	}

	// Başarılı login sayacı temizler
	rl.Reset("203.0.113.7")
	if !rl.Allow("203.0.113.7") {
		t.Fatal("attempt rejected after reset")
	}
}

func TestWindowExpiry(t *testing.T) {
	rl := NewLoginRateLimiter(1, 30*time.Millisecond)
	t.Cleanup(rl.Stop)

	if !rl.Allow("203.0.113.7") {
		t.Fatal("first attempt rejected")
	}
	if rl.Allow("203.0.113.7") {
		t.Fatal("second attempt allowed within window")
	}

	time.Sleep(50 * time.Millisecond)

	if !rl.Allow("203.0.113.7") {
		t.Fatal("attempt rejected after window expired")
	}
}

func TestIndependentIPs(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute)
	t.Cleanup(rl.Stop)

	rl.Allow("203.0.113.7")
	if rl.Allow("203.0.113.7") {
		t.Fatal("limit not enforced")
	}
	if !rl.Allow("198.51.100.2") {
		t.Fatal("unrelated ip blocked")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute)
	t.Cleanup(rl.Stop)

	// Bilinmeyen IP için bekleme süresi yok
	if got := rl.RetryAfterSeconds("203.0.113.7"); got != 0 {
		t.Fatalf("retry for unknown ip = %d, want 0", got)
	}

	rl.Allow("203.0.113.7")
	got := rl.RetryAfterSeconds("203.0.113.7")
	if got < 55 || got > 61 {
		t.Fatalf("retry = %d, want ~60", got)
	}
}

func TestExtractIP(t *testing.T) {
	// X-Forwarded-For listesinin ilk değeri gerçek client
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1, 10.0.0.2")
	if got := ExtractIP(req); got != "203.0.113.7" {
		t.Fatalf("xff list: %q", got)
	}

	// Tek değerli X-Forwarded-For
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	if got := ExtractIP(req); got != "203.0.113.7" {
		t.Fatalf("xff single: %q", got)
	}

	// X-Forwarded-For, X-Real-IP'den önceliklidir
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("X-Real-IP", "198.51.100.2")
	if got := ExtractIP(req); got != "203.0.113.7" {
		t.Fatalf("xff precedence: %q", got)
	}

	// Sadece X-Real-IP
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	if got := ExtractIP(req); got != "198.51.100.2" {
		t.Fatalf("x-real-ip: %q", got)
	}

	// Header yoksa RemoteAddr'dan port ayrılır
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.0.2.1:51234"
	if got := ExtractIP(req); got != "192.0.2.1" {
		t.Fatalf("remote addr: %q", got)
	}

	// Port'suz RemoteAddr olduğu gibi döner
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "192.0.2.1"
	if got := ExtractIP(req); got != "192.0.2.1" {
		t.Fatalf("remote addr without port: %q", got)
	}
}

func TestFormatRetryMessage(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{45, "45 second(s)"},
		{59, "59 second(s)"},
		{60, "1 minute(s)"},
		{61, "1 minute(s)"},
		{120, "2 minute(s)"},
	}
	for _, c := range cases {
		if got := FormatRetryMessage(c.seconds); got != c.want {
			t.Fatalf("format %d = %q, want %q", c.seconds, got, c.want)
		}
	}
}
