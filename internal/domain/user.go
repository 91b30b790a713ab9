package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrPasswordTooLong    = errors.New("password longer than 72 bytes")
)

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

type Role string

const (
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// User is the public view of an account. It never carries a password hash.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u User) IsManager() bool { return u.Role == RoleManager }

// StoredUser is the persisted account record.
type StoredUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

func (s StoredUser) Public() User { return s.User }
