package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stellend/core"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func token(t *testing.T, claims jwt.StandardClaims, key string) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func capture(issuers []string, r *http.Request) string {
	var principal string

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal = core.PrincipalFromContext(r.Context())
	})

	w := httptest.NewRecorder()
	HandleAuthentication(secret, issuers)(next).ServeHTTP(w, r)
	return principal
}

func TestValidToken(t *testing.T) {
	claims := jwt.StandardClaims{
		Subject:   "alice",
		Issuer:    "stellend",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	r := httptest.NewRequest("POST", "/deposit", nil)
	r.Header.Set("Authorization", "Bearer "+token(t, claims, secret))

	assert.Equal(t, "alice", capture([]string{"stellend"}, r))
}

func TestMissingTokenStaysAnonymous(t *testing.T) {
	r := httptest.NewRequest("POST", "/deposit", nil)
	assert.Equal(t, "", capture(nil, r))
}

func TestWrongKeyRejected(t *testing.T) {
	claims := jwt.StandardClaims{
		Subject:   "alice",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	r := httptest.NewRequest("POST", "/deposit", nil)
	r.Header.Set("Authorization", "Bearer "+token(t, claims, "other-key"))

	assert.Equal(t, "", capture(nil, r))
}

func TestUnknownIssuerRejected(t *testing.T) {
	claims := jwt.StandardClaims{
		Subject:   "alice",
		Issuer:    "mallory",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	r := httptest.NewRequest("POST", "/deposit", nil)
	r.Header.Set("Authorization", "Bearer "+token(t, claims, secret))

	assert.Equal(t, "", capture([]string{"stellend"}, r))
}

func TestExpiredTokenRejected(t *testing.T) {
	claims := jwt.StandardClaims{
		Subject:   "alice",
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	}

	r := httptest.NewRequest("POST", "/deposit", nil)
	r.Header.Set("Authorization", "Bearer "+token(t, claims, secret))

	assert.Equal(t, "", capture(nil, r))
}
