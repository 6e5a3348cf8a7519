package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/open-gym/backend/internal/domain/user"
)

// UserSnapshot is the user state embedded in every issued token.
type UserSnapshot struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type Claims struct {
	User UserSnapshot `json:"user"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access tokens with a symmetric key. Expiration is
// stamped at encode time (now + ttl); decode verifies signature and expiry
// together and reports a single failure kind.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (c *Codec) Encode(u user.User) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		User: UserSnapshot{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			FullName: u.FullName(),
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(c.secret)
}

func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
