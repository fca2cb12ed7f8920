package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/julesapp/crm-api/internal/config"
)

const apiPrefix = "/api/"

// SecurityHeaders sets the browser hardening headers. API responses carry client
// contact data and are never cached; the Swagger UI needs inline scripts, so it
// is left without the content policy.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	static := http.Header{}
	if cfg.ContentTypeNosniff {
		static.Set("X-Content-Type-Options", "nosniff")
	}
	if cfg.FrameOptions != "" {
		static.Set("X-Frame-Options", cfg.FrameOptions)
	}
	if cfg.ReferrerPolicy != "" {
		static.Set("Referrer-Policy", cfg.ReferrerPolicy)
	}
	if cfg.PermissionsPolicy != "" {
		static.Set("Permissions-Policy", cfg.PermissionsPolicy)
	}
	if cfg.EnableHSTS {
		hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		static.Set("Strict-Transport-Security", hsts)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, values := range static {
				h[name] = append([]string(nil), values...)
			}
			if cfg.ContentSecurityPolicy != "" && !strings.HasPrefix(r.URL.Path, "/swagger/") {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if strings.HasPrefix(r.URL.Path, apiPrefix) {
				h.Set("Cache-Control", "no-store")
			}
			h.Del("X-Powered-By")
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}
