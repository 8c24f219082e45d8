// CaterEase API | 2026
// ratelimit.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	FailOpen   bool
	BypassFunc func(*http.Request) bool
	OnLimited  func(http.ResponseWriter, *http.Request, *redis_rate.Result)
}

// RateLimiter enforces a sliding-window limit in Redis, degrading to a
// per-process token bucket when Redis is unreachable.
type RateLimiter struct {
	remote *redis_rate.Limiter
	local  *processLimiter
	cfg    RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		remote: redis_rate.NewLimiter(rdb),
		local:  newProcessLimiter(),
		cfg:    cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.BypassFunc != nil && rl.cfg.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.cfg.KeyFunc(r)

		res, err := rl.allow(r.Context(), key)
		switch {
		case err != nil && rl.cfg.FailOpen:
			slog.Warn("rate limiter unavailable, admitting request",
				"error", err, "key", key)
			next.ServeHTTP(w, r)
			return
		case err != nil:
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		writeLimitHeaders(w, res, rl.cfg.Limit)

		if res.Allowed == 0 {
			if rl.cfg.OnLimited != nil {
				rl.cfg.OnLimited(w, r, res)
			} else {
				rejectLimited(w, res)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	if res, err := rl.remote.Allow(ctx, key, rl.cfg.Limit); err == nil {
		return res, nil
	}
	return rl.local.allow(key, rl.cfg.Limit), nil
}

// KeyByIP buckets by client address. Proxy headers are consulted first so
// all requests do not collapse onto the load balancer's address.
func KeyByIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return "ratelimit:ip:" + real
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ratelimit:ip:" + host
}

// KeyByUser buckets by authenticated user, falling back to the client IP
// for anonymous traffic.
func KeyByUser(r *http.Request) string {
	if id := GetUserID(r.Context()); id != 0 {
		return "ratelimit:user:" + strconv.FormatInt(id, 10)
	}
	return KeyByIP(r)
}

func KeyByUserAndEndpoint(r *http.Request) string {
	return KeyByUser(r) + ":endpoint:" + collapsePath(r.URL.Path)
}

// collapsePath folds numeric path segments into a placeholder so every
// /orders/123 style URL shares one bucket.
func collapsePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if allDigits(seg) {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func writeLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset",
		strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))

	// RFC 9238 draft headers alongside the de facto X- ones.
	h.Set("RateLimit-Policy",
		fmt.Sprintf(`%d;w=%d`, limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit",
		fmt.Sprintf(`%d;t=%d`, res.Remaining, int(res.ResetAfter.Seconds())))
}

func rejectLimited(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error": map[string]any{
			"code": "RATE_LIMITED",
			"message": fmt.Sprintf(
				"Rate limit exceeded. Retry after %d seconds.", retryAfter),
		},
	})
}

// processLimiter is the in-memory fallback. Buckets idle for longer than
// bucketTTL are dropped by a background sweep.
type processLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tb       *rate.Limiter
	lastSeen time.Time
}

const (
	sweepEvery = 5 * time.Minute
	bucketTTL  = 10 * time.Minute
)

func newProcessLimiter() *processLimiter {
	p := &processLimiter{buckets: make(map[string]*bucket)}
	go p.sweep()
	return p
}

func (p *processLimiter) sweep() {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-bucketTTL)
		p.mu.Lock()
		for key, b := range p.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(p.buckets, key)
			}
		}
		p.mu.Unlock()
	}
}

func (p *processLimiter) allow(
	key string,
	limit redis_rate.Limit,
) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()

	p.mu.Lock()
	b, ok := p.buckets[key]
	if !ok {
		b = &bucket{tb: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		p.buckets[key] = b
	}
	b.lastSeen = time.Now()
	p.mu.Unlock()

	admitted := b.tb.Allow()

	refill := time.Duration(float64(time.Second) / perSecond)
	retryAfter := -time.Second
	if !admitted {
		retryAfter = refill
	}

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  max(int(b.tb.Tokens()), 0),
		RetryAfter: retryAfter,
		ResetAfter: refill,
	}
	if admitted {
		res.Allowed = 1
	}
	return res
}

type RoleConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

var DefaultRoleLimits = map[string]RoleConfig{
	"user":    {RequestsPerMinute: 120, BurstSize: 20},
	"caterer": {RequestsPerMinute: 300, BurstSize: 50},
	"admin":   {RequestsPerMinute: 1200, BurstSize: 200},
}

// RoleRateLimiter applies per-user limits scaled by role. Unauthenticated
// requests fall through to the caller-supplied global limiter instead.
func RoleRateLimiter(
	rdb *redis.Client,
	roles map[string]RoleConfig,
) func(http.Handler) http.Handler {
	remote := redis_rate.NewLimiter(rdb)
	local := newProcessLimiter()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			role := GetUserRole(r.Context())
			rc, ok := roles[role]
			if !ok {
				rc = roles["user"]
			}

			limit := PerMinute(rc.RequestsPerMinute, rc.BurstSize)
			key := fmt.Sprintf("ratelimit:user:%d", userID)

			res, err := remote.Allow(r.Context(), key, limit)
			if err != nil {
				res = local.allow(key, limit)
			}

			writeLimitHeaders(w, res, limit)

			if res.Allowed == 0 {
				rejectLimited(w, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: time.Minute}
}

func PerSecond(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: time.Second}
}

func PerHour(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: time.Hour}
}
