package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Verifier validates a session token
type Verifier interface {
	Verify(ctx context.Context, token string) (*UserContext, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	verifier   Verifier
	cookieName string
	logger     *zap.Logger
}

// NewMiddleware creates a new authentication middleware.
// Tokens are read from the Authorization header, then the session cookie.
func NewMiddleware(verifier Verifier, cookieName string, logger *zap.Logger) *Middleware {
	return &Middleware{verifier: verifier, cookieName: cookieName, logger: logger}
}

// TokenFromRequest extracts the session token of a request
func (m *Middleware) TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if m.cookieName != "" {
		if c, err := r.Cookie(m.cookieName); err == nil {
			return c.Value
		}
	}
	return ""
}

// Authenticate rejects requests without a valid session
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		token := m.TokenFromRequest(r)
		if token == "" {
			http.Error(w, "Unauthorized: missing session token", http.StatusUnauthorized)
			return
		}

		userCtx, err := m.verifier.Verify(r.Context(), token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", userCtx.UserID),
			zap.Duration("auth_duration", time.Since(start)),
		)

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// OptionalAuthenticate attaches the user when a valid token is present and continues otherwise
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := m.TokenFromRequest(r); token != "" {
			userCtx, err := m.verifier.Verify(r.Context(), token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
				return
			}
			m.logger.Debug("optional auth: token validation failed, continuing unauthenticated",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		}
		next.ServeHTTP(w, r)
	})
}
