package auth

import (
	"net/http"
	"strings"

	"stellend/core"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/golang-jwt/jwt"
)

// HandleAuthentication attaches the bearer token's subject to the
// context as the request principal. Requests without a valid token stay
// anonymous; authorization is enforced per operation downstream.
func HandleAuthentication(secret string, issuers []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			accessToken := getBearerToken(r)
			if accessToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := login(accessToken, secret, issuers)
			if err != nil {
				log.WithError(err).Debugln("parse access token failed")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(core.WithPrincipal(ctx, principal)))
		}

		return http.HandlerFunc(fn)
	}
}

func login(accessToken, secret string, issuers []string) (string, error) {
	var claim jwt.StandardClaims

	_, err := jwt.ParseWithClaims(accessToken, &claim, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	if len(issuers) > 0 && !govalidator.IsIn(claim.Issuer, issuers...) {
		return "", core.ErrUnauthorized
	}

	if claim.Subject == "" {
		return "", core.ErrUnauthorized
	}

	return claim.Subject, nil
}

func getBearerToken(r *http.Request) string {
	s := r.Header.Get("Authorization")
	return strings.TrimPrefix(s, "Bearer ")
}
