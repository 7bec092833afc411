package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type reporter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// writeLimiter throttles the mutation routes (report, resolve, comments)
// per client IP so one reporter cannot flood the case feed.
type writeLimiter struct {
	mu        sync.Mutex
	reporters map[string]*reporter
	limit     rate.Limit
	burst     int
	ttl       time.Duration
}

func Limit(rps, burst int, ttl time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	l := &writeLimiter{
		reporters: make(map[string]*reporter),
		limit:     rate.Limit(rps),
		burst:     burst,
		ttl:       ttl,
	}

	go l.evictIdle()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				logger.Warn("write rate limit exceeded", slog.String("ip", clientIP(r)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"error":"too many requests, slow down"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *writeLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.reporters[ip]
	if !ok {
		v = &reporter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.reporters[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (l *writeLimiter) evictIdle() {
	for range time.Tick(time.Minute) {
		l.mu.Lock()
		for ip, v := range l.reporters {
			if time.Since(v.lastSeen) > l.ttl {
				delete(l.reporters, ip)
			}
		}
		l.mu.Unlock()
	}
}

// clientIP strips the port; a bare address (unix socket, some proxies)
// is used as-is rather than failing the request.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
