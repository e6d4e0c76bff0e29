package handler

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"expvar"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"golang.org/x/time/rate"
)

// recoverPanic middleware recovers from panics and will always be run in the event of a panic.
func (h *Handler) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				h.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// logRequest middleware writes one log entry per request once the response is sent.
func (h *Handler) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		h.logger.PrintInfo("request completed", map[string]string{
			"request_method": r.Method,
			"request_url":    r.URL.String(),
			"status":         strconv.Itoa(m.Code),
			"bytes":          strconv.FormatInt(m.Written, 10),
			"duration":       m.Duration.String(),
		})
	})
}

// idleClientTimeout is how long a client may stay quiet before its limiter is forgotten.
const idleClientTimeout = 3 * time.Minute

// clientLimiters holds one token bucket per client IP.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*limitedClient
	rps     rate.Limit
	burst   int
}

type limitedClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*limitedClient),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// allow reports whether ip may make a request now.
func (l *clientLimiters) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, found := l.clients[ip]
	if !found {
		c = &limitedClient{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweep forgets clients not seen within idle of now.
func (l *clientLimiters) sweep(now time.Time, idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > idle {
			delete(l.clients, ip)
		}
	}
}

func (l *clientLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweepEvery runs sweep on every tick of interval until ctx is cancelled.
func (l *clientLimiters) sweepEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.sweep(now, idleClientTimeout)
		}
	}
}

// rateLimit middleware implements IP-based rate limiting to prevent clients from making too many requests
// too quickly. Every limited request may reach the upstream API, so the limit also protects its quota.
// Idle clients are swept once a minute until ctx is cancelled.
func (h *Handler) rateLimit(ctx context.Context, next http.Handler) http.Handler {
	if !h.config.Limiter.Enabled {
		return next
	}
	limiters := newClientLimiters(h.config.Limiter.RPS, h.config.Limiter.Burst)
	go limiters.sweepEvery(ctx, time.Minute)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			h.serverErrorResponse(w, r, err)
			return
		}
		if !limiters.allow(ip, time.Now()) {
			h.rateLimitExceededResponse(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// enableCORS middleware relaxes the same-origin policy for trusted origins.
func (h *Handler) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")
		origin := r.Header.Get("Origin")
		if origin != "" {
			for i := range h.config.Cors.TrustedOrigins {
				if origin == h.config.Cors.TrustedOrigins[i] {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
						w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, GET")
						w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
						w.WriteHeader(http.StatusOK)
						return
					}
					break
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// metrics middleware exposes request-level metrics.
func (h *Handler) metrics(next http.Handler) http.Handler {
	if h.config.Metrics.Enabled {
		totalRequestsReceived := expvarInt("total_requests_received")
		totalResponsesSent := expvarInt("total_responses_sent")
		totalProcessingTimeMicrosecond := expvarInt("total_processing_time_μs")
		totalResponsesSentBystatus := expvarMap("total_responses_sent_by_status")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			totalRequestsReceived.Add(1)
			metrics := httpsnoop.CaptureMetrics(next, w, r)
			totalResponsesSent.Add(1)
			totalProcessingTimeMicrosecond.Add(metrics.Duration.Microseconds())
			totalResponsesSentBystatus.Add(strconv.Itoa(metrics.Code), 1)
		})
	}
	return next
}

// expvarInt returns the published counter called name, publishing it on first use.
func expvarInt(name string) *expvar.Int {
	if v, ok := expvar.Get(name).(*expvar.Int); ok {
		return v
	}
	return expvar.NewInt(name)
}

func expvarMap(name string) *expvar.Map {
	if v, ok := expvar.Get(name).(*expvar.Map); ok {
		return v
	}
	return expvar.NewMap(name)
}

// basicAuth middleware implements basic authentication for the /debug/vars endpoint.
// With no configured username the endpoint is closed.
func (h *Handler) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok && h.config.BasicAuth.Username != "" {
			usernameHash := sha256.Sum256([]byte(username))
			passwordHash := sha256.Sum256([]byte(password))
			expectedUsernameHash := sha256.Sum256([]byte(h.config.BasicAuth.Username))
			expectedPasswordHash := sha256.Sum256([]byte(h.config.BasicAuth.Password))
			usernameMatch := (subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) == 1)
			passwordMatch := (subtle.ConstantTimeCompare(passwordHash[:], expectedPasswordHash[:]) == 1)
			if usernameMatch && passwordMatch {
				next.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
		h.invalidCredentialsResponse(w, r)
	})
}
