package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/distrischool/identity/internal/domain"
	"github.com/distrischool/identity/internal/token"
)

// Key to store the principal in the request context
type key int

const principalKey key = 0

var errNoToken = errors.New("no access token provided")

// Auth holds dependencies for authentication middleware
type Auth struct {
	tokens token.Issuer
}

func NewAuth(tokens token.Issuer) *Auth {
	return &Auth{tokens: tokens}
}

// NeedAuth returns middleware that rejects requests without a valid bearer
// token and stores the verified principal in the request context.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := a.extractPrincipal(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractPrincipal reads the token from the cookie (browser clients) or the
// Authorization header (API clients) and verifies it.
func (a *Auth) extractPrincipal(r *http.Request) (domain.Principal, error) {
	var tokenString string
	accessCookie, err := r.Cookie("accessToken")
	if err == nil {
		tokenString = accessCookie.Value
	} else if t, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = t
	}

	if tokenString == "" {
		return domain.Principal{}, errNoToken
	}

	return a.tokens.Verify(tokenString)
}

func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(domain.Principal)
	return principal, ok
}
