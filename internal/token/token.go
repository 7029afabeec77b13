// Package token mints and verifies HS256 bearer tokens. Tokens are
// self-contained: verification needs only the signing key, no server-side
// session state.
package token

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/distrischool/identity/internal/domain"
	internal_errors "github.com/distrischool/identity/internal/errors"
)

type Issuer interface {
	Issue(principal domain.Principal) (domain.AccessToken, error)
	Verify(tokenString string) (domain.Principal, error)
}

type Service struct {
	key []byte
	ttl time.Duration
}

// New decodes the base64 signing key once. A key that fails to decode is a
// startup-time configuration error, callers are expected to treat it as
// fatal.
func New(base64Key string, ttl time.Duration) (*Service, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("malformed signing key: %w", err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("signing key is empty")
	}
	return &Service{key: key, ttl: ttl}, nil
}

// Issue signs claims {sub, role, iat, exp} for the given principal.
// ExpiresAt is always IssuedAt plus the configured TTL.
func (s *Service) Issue(principal domain.Principal) (domain.AccessToken, error) {
	issuedAt := time.Now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub":  principal.Email,
		"role": string(principal.Role),
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("can't sign token: %w", err)
	}

	return domain.AccessToken{
		Value:     tokenString,
		Subject:   principal.Email,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the signature and expiry and returns the principal encoded
// in the token.
func (s *Service) Verify(tokenString string) (domain.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return domain.Principal{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Principal{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	subject, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if subject == "" {
		return domain.Principal{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid access token", StatusCode: http.StatusUnauthorized}
	}

	return domain.Principal{Email: subject, Role: domain.Role(role)}, nil
}
