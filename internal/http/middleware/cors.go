package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/julesapp/crm-api/internal/config"
	"go.uber.org/zap"
)

// CORS admits the front end's dev server and any configured origins. The deployed
// front end is served from the API's own origin, so outside development only the
// listed origins pass, and a wildcard is refused while the session cookie is sent
// with credentialed requests.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc:  originPolicy(cfg, environment, logger),
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   withHeader(cfg.ExposedHeaders, RequestIDHeader),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

func originPolicy(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(*http.Request, string) bool {
	development := isDevelopment(environment)

	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	wildcard := false
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			wildcard = true
			continue
		}
		if origin != "" {
			allowed[strings.ToLower(origin)] = struct{}{}
		}
	}

	switch {
	case wildcard && !development && cfg.AllowCredentials:
		logger.Error("CORS wildcard origin ignored: credentials are allowed outside development",
			zap.String("environment", environment))
		wildcard = false
	case wildcard && !development:
		logger.Warn("CORS configured with wildcard origin", zap.String("environment", environment))
	}

	anyOrigin := wildcard || (development && len(allowed) == 0)
	logger.Info("CORS configured",
		zap.Int("origins", len(allowed)),
		zap.Bool("any_origin", anyOrigin),
		zap.String("environment", environment))

	return func(_ *http.Request, origin string) bool {
		if origin == "" {
			return false
		}
		if anyOrigin {
			return true
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}
}

func isDevelopment(environment string) bool {
	switch environment {
	case "", "development", "local":
		return true
	}
	return false
}

func withHeader(headers []string, header string) []string {
	for _, h := range headers {
		if strings.EqualFold(h, header) {
			return headers
		}
	}
	return append(append([]string(nil), headers...), header)
}
