package api

import (
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// WithRequestLog tags each request with an id and logs method, path,
// status and duration.
func WithRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %s -> %d (%s) req=%s", remoteIP(r), r.Method, r.URL.Path, rec.status, time.Since(start), reqID)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// IPLimiter rate limits by client IP, one token bucket per address.
// Stale buckets are dropped by a background sweep.
type IPLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
}

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewIPLimiter(perSecond float64, burst int) *IPLimiter {
	l := &IPLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(perSecond),
		burst:   burst,
	}
	go l.sweep()
	return l
}

func (l *IPLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(l.r, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = time.Now()
	return c.lim.Allow()
}

func (l *IPLimiter) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		l.mu.Lock()
		for key, c := range l.clients {
			if c.lastSeen.Before(cutoff) {
				delete(l.clients, key)
			}
		}
		l.mu.Unlock()
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
