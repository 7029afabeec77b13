package domain

import "github.com/google/uuid"

type Email = string

// Role is an access label carried on the user and inside issued tokens.
// The service stores and forwards it, it does not evaluate permissions.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is the persisted identity record. PassHash is a bcrypt digest and
// must never be logged or returned to callers.
type User struct {
	Id       uuid.UUID
	Email    Email
	PassHash string
	Role     Role
}

// PublicView is the only shape of a user that leaves the service boundary.
func (u User) PublicView() UserView {
	return UserView{Id: u.Id, Email: u.Email, Role: u.Role}
}

type UserView struct {
	Id    uuid.UUID `json:"id"`
	Email Email     `json:"email"`
	Role  Role      `json:"role"`
}
