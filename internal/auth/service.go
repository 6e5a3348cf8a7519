package auth

import (
	"context"
	"errors"

	"github.com/open-gym/backend/internal/domain/user"
	"github.com/open-gym/backend/internal/security"
)

// Keep this small so handler and middleware tests can fake it.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type Credentials struct {
	Username string
	Password string
}

// Service orchestrates credential verification, token issuance and
// token-to-user resolution. It holds no per-request state.
type Service struct {
	users  UserLookup
	codec  *Codec
	secret string
}

func NewService(users UserLookup, codec *Codec, secret string) *Service {
	return &Service{
		users:  users,
		codec:  codec,
		secret: secret,
	}
}

// IssueToken verifies the credentials and returns a signed access token.
// Unknown username, account without a password and wrong password are
// indistinguishable to the caller.
func (s *Service) IssueToken(ctx context.Context, creds Credentials) (string, error) {
	u, err := s.users.GetByUsername(ctx, creds.Username)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	if u.HashedPassword == nil {
		return "", ErrInvalidCredentials
	}

	salt := security.Salt(u.CreatedAt)

	if !security.CheckPassword(s.secret, creds.Password, salt, *u.HashedPassword) {
		return "", ErrInvalidCredentials
	}

	return s.codec.Encode(u)
}

// ResolveUser decodes the token, loads its subject and applies the
// post-authentication policy checks. Unlike IssueToken these failures are
// deliberately distinct kinds: they describe what happened to an already
// authenticated token.
func (s *Service) ResolveUser(ctx context.Context, token string) (user.User, error) {
	claims, err := s.codec.Decode(token)

	if err != nil {
		return user.User{}, ErrInvalidToken
	}

	u, err := s.users.GetByUsername(ctx, claims.Subject)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// token outlived the account
			return user.User{}, ErrUnknownUser
		}

		return user.User{}, err
	}

	if !u.IsActive {
		return user.User{}, ErrUserInactive
	}

	return u, nil
}
