package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"
	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/config"
	"go.uber.org/zap"
)

// RateLimiter throttles API traffic. Signed-in users share one budget per account
// across devices, anonymous callers get one per address, and the sign-in and sign-up
// endpoints get a tighter budget per address and endpoint.
type RateLimiter struct {
	cfg        *config.RateLimitConfig
	logger     *zap.Logger
	anonymous  func(http.Handler) http.Handler
	account    func(http.Handler) http.Handler
	credential func(http.Handler) http.Handler
	exemptIPs  map[string]struct{}
}

func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:       cfg,
		logger:    logger,
		exemptIPs: make(map[string]struct{}, len(cfg.ExemptIPs)),
	}
	for _, ip := range cfg.ExemptIPs {
		rl.exemptIPs[ip] = struct{}{}
	}

	rl.anonymous = httprate.Limit(cfg.RequestsPerMinute, time.Minute,
		httprate.WithKeyFuncs(rl.keyByAddress),
		httprate.WithLimitHandler(rl.tooManyRequests),
	)
	rl.account = httprate.Limit(cfg.RequestsPerMinuteAuth, time.Minute,
		httprate.WithKeyFuncs(rl.keyByAccount),
		httprate.WithLimitHandler(rl.tooManyRequests),
	)

	attempts := cfg.CredentialAttemptsPerMinute
	if attempts <= 0 {
		attempts = cfg.RequestsPerMinute
	}
	rl.credential = httprate.Limit(attempts, time.Minute,
		httprate.WithKeyFuncs(rl.keyByAddress, httprate.KeyByEndpoint),
		httprate.WithLimitHandler(rl.tooManyRequests),
	)

	if cfg.Enabled {
		logger.Info("Rate limiter initialized",
			zap.Int("requests_per_minute", cfg.RequestsPerMinute),
			zap.Int("requests_per_minute_auth", cfg.RequestsPerMinuteAuth),
			zap.Int("credential_attempts_per_minute", attempts),
			zap.Bool("trust_proxy_headers", cfg.TrustProxyHeaders),
		)
	}
	return rl
}

// Limit throttles authenticated routes by account, falling back to the address
// when no user is attached.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	limited := rl.account(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

// LimitByIP runs before authentication and throttles by address only
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	limited := rl.anonymous(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

// LimitCredentials guards endpoints that accept a password
func (rl *RateLimiter) LimitCredentials(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	limited := rl.credential(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := rl.exemptIPs[rl.clientAddress(r)]; ok {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) exempt(r *http.Request) bool {
	for _, p := range rl.cfg.ExemptPaths {
		if p == r.URL.Path || (strings.HasSuffix(p, "/") && strings.HasPrefix(r.URL.Path, p)) {
			return true
		}
	}
	_, ok := rl.exemptIPs[rl.clientAddress(r)]
	return ok
}

func (rl *RateLimiter) keyByAccount(r *http.Request) (string, error) {
	if user, ok := auth.FromContext(r.Context()); ok && user != nil {
		return "account:" + user.UserID, nil
	}
	return rl.keyByAddress(r)
}

func (rl *RateLimiter) keyByAddress(r *http.Request) (string, error) {
	return "addr:" + rl.clientAddress(r), nil
}

// clientAddress reads proxy headers only when the deployment sits behind a trusted proxy
func (rl *RateLimiter) clientAddress(r *http.Request) string {
	if rl.cfg.TrustProxyHeaders {
		if ip, err := httprate.KeyByRealIP(r); err == nil && ip != "" {
			return ip
		}
	}
	ip, _ := httprate.KeyByIP(r)
	return ip
}

func (rl *RateLimiter) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if user, ok := auth.FromContext(r.Context()); ok && user != nil {
		userID = user.UserID
	}
	rl.logger.Warn("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("client_ip", rl.clientAddress(r)),
		zap.String("user_id", userID),
	)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"type":"too_many_requests","title":"Too Many Requests","status":429,"detail":"Too many requests. Please try again later."}`))
}
