package middleware

import (
	"context"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"satmine/utils"
)

// Login lockout policy: this many failures lock the account for LockDuration.
const (
	MaxFailedAttempts = 5
	LockDuration      = 5 * time.Minute
)

type timestamps []int64 // unix nanos

func nowUnix() int64 { return time.Now().UnixNano() }

// IPRateLimiter implements per-IP fixed-window counters with optional
// trusted-proxy parsing.
type IPRateLimiter struct {
	maxReq      int
	window      time.Duration
	mu          sync.Mutex
	state       map[string]timestamps
	cleanupTick time.Duration
	trustedCIDR []string
}

func NewIPRateLimiter(maxReq int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		maxReq:      maxReq,
		window:      window,
		state:       make(map[string]timestamps),
		cleanupTick: time.Minute,
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		l.trustedCIDR = strings.Split(v, ",")
	}
	go l.cleanupLoop()
	return l
}

// clientIPGeneric returns the client IP string. If trustedCIDR is provided,
// X-Forwarded-For / X-Real-IP headers are honored when remote addr is inside
// one of the trusted CIDRs or IPs.
func clientIPGeneric(r *http.Request, trustedCIDR []string) string {
	remoteHost, _, _ := net.SplitHostPort(r.RemoteAddr)
	if remoteHost == "" {
		remoteHost = r.RemoteAddr
	}

	trusted := false
	for _, c := range trustedCIDR {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if strings.Contains(c, "/") {
			if _, ipnet, err := net.ParseCIDR(c); err == nil {
				if ip := net.ParseIP(remoteHost); ip != nil && ipnet.Contains(ip) {
					trusted = true
					break
				}
			}
		} else if c == remoteHost {
			trusted = true
			break
		}
	}
	if !trusted {
		return remoteHost
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if first := strings.TrimSpace(parts[0]); first != "" {
			return first
		}
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
		return xr
	}
	return remoteHost
}

func (l *IPRateLimiter) allow(ip string) bool {
	now := nowUnix()
	cutoff := now - l.window.Nanoseconds()

	l.mu.Lock()
	defer l.mu.Unlock()
	arr := l.state[ip]
	var kept timestamps
	for _, ts := range arr {
		if ts >= cutoff {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.maxReq {
		l.state[ip] = kept
		return false
	}
	l.state[ip] = append(kept, now)
	return true
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIPGeneric(r, l.trustedCIDR)
		if !l.allow(ip) {
			utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{
				Success: false,
				Message: "Too many requests, slow down",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(l.cleanupTick)
		cutoff := nowUnix() - l.window.Nanoseconds()
		l.mu.Lock()
		for k, arr := range l.state {
			var kept timestamps
			for _, ts := range arr {
				if ts >= cutoff {
					kept = append(kept, ts)
				}
			}
			if len(kept) == 0 {
				delete(l.state, k)
			} else {
				l.state[k] = kept
			}
		}
		l.mu.Unlock()
	}
}

// Account lockout tracker for failed logins. Redis-backed when configured so
// the lock survives restarts and spans instances; in-memory otherwise.
var (
	loginMu   sync.Mutex
	failedMap = make(map[string]int)   // username -> failures
	lockMap   = make(map[string]int64) // username -> lockUntil unix nanos
)

func lockKeys(username string) (string, string) {
	u := strings.ToLower(strings.TrimSpace(username))
	return "login:fail:" + u, "login:lock:" + u
}

func IsAccountLocked(username string) (bool, time.Duration) {
	if utils.RedisClient != nil {
		_, lockKey := lockKeys(username)
		ttl, err := utils.RedisClient.TTL(context.Background(), lockKey).Result()
		if err == nil && ttl > 0 {
			return true, ttl
		}
		return false, 0
	}

	key := strings.ToLower(strings.TrimSpace(username))
	loginMu.Lock()
	defer loginMu.Unlock()
	until := lockMap[key]
	if until == 0 {
		return false, 0
	}
	now := nowUnix()
	if until > now {
		return true, time.Duration(until - now)
	}
	delete(lockMap, key)
	failedMap[key] = 0
	return false, 0
}

// RecordFailedLogin counts a failure and returns how many attempts remain
// before the account locks. Zero means the lock just engaged.
func RecordFailedLogin(username string) int {
	if utils.RedisClient != nil {
		ctx := context.Background()
		failKey, lockKey := lockKeys(username)
		failures, err := utils.RedisClient.Incr(ctx, failKey).Result()
		if err == nil {
			_, _ = utils.RedisClient.Expire(ctx, failKey, 30*time.Minute).Result()
			if failures >= MaxFailedAttempts {
				_ = utils.RedisClient.Set(ctx, lockKey, "1", LockDuration).Err()
				_, _ = utils.RedisClient.Del(ctx, failKey).Result()
				return 0
			}
			return MaxFailedAttempts - int(failures)
		}
		// fall through to in-memory on Redis errors
	}

	key := strings.ToLower(strings.TrimSpace(username))
	loginMu.Lock()
	defer loginMu.Unlock()
	failedMap[key]++
	if failedMap[key] >= MaxFailedAttempts {
		lockMap[key] = nowUnix() + LockDuration.Nanoseconds()
		failedMap[key] = 0
		return 0
	}
	return MaxFailedAttempts - failedMap[key]
}

func ResetFailedLogin(username string) {
	if utils.RedisClient != nil {
		failKey, lockKey := lockKeys(username)
		_, _ = utils.RedisClient.Del(context.Background(), failKey, lockKey).Result()
		return
	}
	key := strings.ToLower(strings.TrimSpace(username))
	loginMu.Lock()
	defer loginMu.Unlock()
	delete(lockMap, key)
	failedMap[key] = 0
}
