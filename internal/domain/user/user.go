package user

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
)

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	// nil until a password has been set for the account
	HashedPassword *string   `json:"-"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName joins first and last name, title-cased.
func (u User) FullName() string {
	return titleCase(strings.TrimSpace(u.FirstName + " " + u.LastName))
}

func titleCase(s string) string {
	words := strings.Fields(s)

	for i, w := range words {
		// the first letter may be a multi-byte rune
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}

	return strings.Join(words, " ")
}

type CreateUserRequest struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

type UpdateUserRequest struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}
