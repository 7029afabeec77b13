package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/distrischool/identity/internal/domain"
	internal_errors "github.com/distrischool/identity/internal/errors"
)

const uniqueViolation = "23505"

// =========================================================================
// Public Methods (satisfy the service.IdentityStorage interface)
// =========================================================================

// SaveUser inserts a new identity record. The users.email unique constraint
// makes the duplicate check atomic: when two concurrent registrations race,
// exactly one insert succeeds and the other surfaces as a conflict.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveUser(tx, user)
	})
}

// UserByEmail fetches a user by email. It uses the main connection pool,
// reads don't need a transaction.
func (s *Storage) UserByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	return s.userByEmail(s.db, email)
}

// DeleteUser removes a user record, used by account cleanup tooling.
func (s *Storage) DeleteUser(ctx context.Context, email domain.Email) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteUser(tx, email)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) error {
	_, err := q.Exec("INSERT INTO users(id, email, password_hash, role) VALUES($1, $2, $3, $4)",
		user.Id, user.Email, user.PassHash, string(user.Role))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return &internal_errors.ErrorWithStatusCode{Message: "Email already in use", StatusCode: http.StatusConflict}
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Storage) userByEmail(q Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	var role string
	err := q.QueryRow("SELECT id, email, password_hash, role FROM users WHERE email = $1", email).
		Scan(&user.Id, &user.Email, &user.PassHash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.Role = domain.Role(role)
	return user, nil
}

func (s *Storage) deleteUser(q Querier, email domain.Email) error {
	result, err := q.Exec("DELETE FROM users WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found for deletion", StatusCode: http.StatusNotFound}
	}
	return nil
}
