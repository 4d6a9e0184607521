package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var testSecret = []byte("test-admin-secret")

func signToken(t *testing.T, mutate func(b *jwt.Builder)) string {
	t.Helper()
	b := jwt.NewBuilder().
		Issuer("nop-admin").
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour)).
		Claim("role", "admin")
	if mutate != nil {
		mutate(b)
	}
	tok, err := b.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

func protected(m Middleware) http.Handler {
	return m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func doRequest(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/Configure", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdminAcceptsValidToken(t *testing.T) {
	m := Middleware{Secret: testSecret, Issuer: "nop-admin"}
	rec := doRequest(protected(m), "Bearer "+signToken(t, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireAdminMissingToken(t *testing.T) {
	m := Middleware{Secret: testSecret}
	rec := doRequest(protected(m), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminMalformedHeader(t *testing.T) {
	m := Middleware{Secret: testSecret}
	rec := doRequest(protected(m), "Token abc")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminWrongKey(t *testing.T) {
	m := Middleware{Secret: []byte("some-other-secret")}
	rec := doRequest(protected(m), "Bearer "+signToken(t, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminExpiredToken(t *testing.T) {
	m := Middleware{Secret: testSecret}
	raw := signToken(t, func(b *jwt.Builder) {
		b.Expiration(time.Now().Add(-time.Hour))
	})
	rec := doRequest(protected(m), "Bearer "+raw)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminWrongIssuer(t *testing.T) {
	m := Middleware{Secret: testSecret, Issuer: "nop-admin"}
	raw := signToken(t, func(b *jwt.Builder) {
		b.Issuer("someone-else")
	})
	rec := doRequest(protected(m), "Bearer "+raw)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminNonAdminRole(t *testing.T) {
	m := Middleware{Secret: testSecret}
	raw := signToken(t, func(b *jwt.Builder) {
		b.Claim("role", "customer")
	})
	rec := doRequest(protected(m), "Bearer "+raw)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAdminUnconfiguredSecret(t *testing.T) {
	m := Middleware{}
	rec := doRequest(protected(m), "Bearer "+signToken(t, nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
