package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyEmail     = errors.New("empty email")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrShortPassword  = errors.New("password too short")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

const minPasswordLength = 6

// User is an account holder. PasswordHash is a bcrypt hash, never the
// plaintext.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		return ErrEmptyEmail
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks a plaintext password before hashing.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrShortPassword
	}
	return nil
}
