package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPGeneric_DirectRemote(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "203.0.113.5:54321"
	ip := clientIPGeneric(req, nil)
	if ip != "203.0.113.5" {
		t.Fatalf("expected direct remote IP, got %s", ip)
	}
}

func TestClientIPGeneric_TrustedProxyXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.10:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.10")
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "203.0.113.7" {
		t.Fatalf("expected X-Forwarded-For first value, got %s", ip)
	}
}

func TestClientIPGeneric_UntrustedProxyIgnoresXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.11:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.8, 198.51.100.11")
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "198.51.100.11" {
		t.Fatalf("expected remote IP when proxy untrusted, got %s", ip)
	}
}

func TestIPRateLimiter_BlocksOverLimit(t *testing.T) {
	l := &IPRateLimiter{maxReq: 2, window: time.Minute, state: make(map[string]timestamps)}
	if !l.allow("10.0.0.1") || !l.allow("10.0.0.1") {
		t.Fatalf("first two requests must pass")
	}
	if l.allow("10.0.0.1") {
		t.Fatalf("third request within the window must be blocked")
	}
	if !l.allow("10.0.0.2") {
		t.Fatalf("another IP must not be affected")
	}
}

func TestAccountLockout_EngagesAfterMaxFailures(t *testing.T) {
	user := "lockout-test-user"
	ResetFailedLogin(user)

	for i := 0; i < MaxFailedAttempts-1; i++ {
		if left := RecordFailedLogin(user); left != MaxFailedAttempts-1-i {
			t.Fatalf("attempt %d: expected %d left, got %d", i+1, MaxFailedAttempts-1-i, left)
		}
		if locked, _ := IsAccountLocked(user); locked {
			t.Fatalf("must not lock before %d failures", MaxFailedAttempts)
		}
	}

	if left := RecordFailedLogin(user); left != 0 {
		t.Fatalf("final failure must engage the lock, got %d left", left)
	}
	locked, ttl := IsAccountLocked(user)
	if !locked {
		t.Fatalf("account must be locked after %d failures", MaxFailedAttempts)
	}
	if ttl <= 0 || ttl > LockDuration {
		t.Fatalf("lock ttl out of range: %v", ttl)
	}

	ResetFailedLogin(user)
	if locked, _ := IsAccountLocked(user); locked {
		t.Fatalf("reset must clear the lock")
	}
}
