package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/distrischool/identity/internal/domain"
	internal_errors "github.com/distrischool/identity/internal/errors"
	"github.com/distrischool/identity/internal/logger"
	"github.com/distrischool/identity/internal/password"
)

type AuthService interface {
	Register(ctx context.Context, email domain.Email, plaintext string, role domain.Role) (domain.UserView, error)
	Login(ctx context.Context, email domain.Email, plaintext string) (domain.AccessToken, error)
	Authenticate(ctx context.Context, email domain.Email, plaintext string) (domain.Principal, error)
}

type IdentityStorage interface {
	SaveUser(ctx context.Context, user domain.User) error
	UserByEmail(ctx context.Context, email domain.Email) (domain.User, error)
}

type TokenIssuer interface {
	Issue(principal domain.Principal) (domain.AccessToken, error)
}

type AuditPublisher interface {
	Publish(event domain.LoginEvent)
}

type Auth struct {
	storage IdentityStorage
	hasher  password.Hasher
	tokens  TokenIssuer
	audit   AuditPublisher

	// Digest compared against when the email is unknown, so that path does
	// roughly the same work as a real password check.
	dummyDigest string
}

func NewAuth(storage IdentityStorage, hasher password.Hasher, tokens TokenIssuer, audit AuditPublisher) *Auth {
	dummyDigest, err := hasher.Hash("unknown-user-placeholder")
	if err != nil {
		// bcrypt only fails on oversized input, which this is not.
		logger.Log.Error("failed to hash dummy digest", "error", err)
	}
	return &Auth{
		storage:     storage,
		hasher:      hasher,
		tokens:      tokens,
		audit:       audit,
		dummyDigest: dummyDigest,
	}
}

func invalidCredentials() error {
	return &internal_errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
}

// Register creates a new identity and returns its public view. The store's
// unique constraint on email is what actually guarantees no two concurrent
// registrations of the same address both succeed; the lookup here only gives
// a friendlier early exit.
func (a *Auth) Register(ctx context.Context, email domain.Email, plaintext string, role domain.Role) (domain.UserView, error) {
	email = strings.ToLower(email)

	if !role.Valid() {
		return domain.UserView{}, &internal_errors.ErrorWithStatusCode{Message: "Unknown role", StatusCode: http.StatusBadRequest}
	}

	_, err := a.storage.UserByEmail(ctx, email)
	if err == nil {
		return domain.UserView{}, &internal_errors.ErrorWithStatusCode{Message: "Email already in use", StatusCode: http.StatusConflict}
	}
	if !internal_errors.IsNotFound(err) {
		return domain.UserView{}, err
	}

	passHash, err := a.hasher.Hash(plaintext)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.UserView{}, err
	}

	user := domain.User{
		Id:       uuid.New(),
		Email:    email,
		PassHash: passHash,
		Role:     role,
	}
	if err := a.storage.SaveUser(ctx, user); err != nil {
		return domain.UserView{}, err
	}

	return user.PublicView(), nil
}

// Authenticate validates an email/password pair and returns the verified
// principal. Unknown email and wrong password collapse into the same
// failure so callers can't probe which addresses are registered.
func (a *Auth) Authenticate(ctx context.Context, email domain.Email, plaintext string) (domain.Principal, error) {
	email = strings.ToLower(email)

	user, err := a.storage.UserByEmail(ctx, email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			// Burn a comparison anyway to keep this branch shaped like
			// the wrong-password one.
			a.hasher.Verify(plaintext, a.dummyDigest)
			return domain.Principal{}, invalidCredentials()
		}
		return domain.Principal{}, err
	}

	if !a.hasher.Verify(plaintext, user.PassHash) {
		return domain.Principal{}, invalidCredentials()
	}

	return domain.Principal{Email: user.Email, Role: user.Role}, nil
}

// Login authenticates, issues a token and fires the audit event. The audit
// publish is a non-blocking handoff: its outcome never changes or delays
// what the caller gets back.
func (a *Auth) Login(ctx context.Context, email domain.Email, plaintext string) (domain.AccessToken, error) {
	principal, err := a.Authenticate(ctx, email, plaintext)
	if err != nil {
		return domain.AccessToken{}, err
	}

	token, err := a.tokens.Issue(principal)
	if err != nil {
		logger.Log.Error("failed to issue token", "email", principal.Email, "error", err)
		return domain.AccessToken{}, err
	}

	a.audit.Publish(domain.NewLoginEvent(principal.Email))

	return token, nil
}
