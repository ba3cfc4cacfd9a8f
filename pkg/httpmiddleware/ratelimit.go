package httpmiddleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-client token bucket limiter.
type RateLimitConfig struct {
	// Max is the bucket size: requests allowed in a burst.
	Max int
	// Window is the time it takes to refill a full bucket.
	Window time.Duration
	// KeyFunc extracts the client key. Defaults to the client IP.
	KeyFunc func(*http.Request) string
}

// RateLimit limits each client to Max requests per Window using a token
// bucket. Idle buckets are evicted after a few windows. Rejected requests get
// 429 with a Retry-After header.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.Max < 1 {
		cfg.Max = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	every := rate.Every(cfg.Window / time.Duration(cfg.Max))
	buckets := gocache.New(3*cfg.Window, 3*cfg.Window)
	limit := strconv.Itoa(cfg.Max)

	limiterFor := func(key string) *rate.Limiter {
		if v, ok := buckets.Get(key); ok {
			l := v.(*rate.Limiter)
			buckets.SetDefault(key, l)
			return l
		}
		l := rate.NewLimiter(every, cfg.Max)
		if err := buckets.Add(key, l, gocache.DefaultExpiration); err != nil {
			// Lost the race with a concurrent request for the same key.
			if v, ok := buckets.Get(key); ok {
				return v.(*rate.Limiter)
			}
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := limiterFor(cfg.KeyFunc(r))
			now := time.Now()
			res := l.ReserveN(now, 1)

			w.Header().Set("X-RateLimit-Limit", limit)
			if delay := res.DelayFrom(now); delay > 0 {
				res.CancelAt(now)
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			remaining := int(l.TokensAt(now))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers X-Forwarded-For, then X-Real-IP, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
