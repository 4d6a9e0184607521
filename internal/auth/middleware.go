package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/common"
)

// Middleware guards the admin configuration surface with bearer tokens issued
// by the host platform's admin backend.
type Middleware struct {
	Secret    []byte
	Issuer    string
	ClockSkew time.Duration
}

// RequireAdmin validates the bearer token and the admin role claim.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.Secret) == 0 {
			common.JSONError(w, http.StatusInternalServerError, "AUTH_NOT_CONFIGURED", "admin auth unavailable", nil)
			return
		}
		raw := bearerToken(r)
		if raw == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "bearer token required", nil)
			return
		}
		options := []jwt.ParseOption{
			jwt.WithKey(jwa.HS256, m.Secret),
			jwt.WithValidate(true),
		}
		if m.Issuer != "" {
			options = append(options, jwt.WithIssuer(m.Issuer))
		}
		if m.ClockSkew > 0 {
			options = append(options, jwt.WithAcceptableSkew(m.ClockSkew))
		}
		tok, err := jwt.Parse([]byte(raw), options...)
		if err != nil {
			common.JSONError(w, http.StatusUnauthorized, "INVALID_TOKEN", "token validation failed", nil)
			return
		}
		if role, ok := tok.Get("role"); !ok || role != "admin" {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
