package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/open-gym/backend/internal/domain/user"
	"github.com/open-gym/backend/internal/security"
)

type fakeLookup struct {
	getFn func(ctx context.Context, username string) (user.User, error)
}

func (f *fakeLookup) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, username)
	}

	return user.User{}, user.ErrNotFound
}

const serviceSecret = "service-test-secret"

func activeUserWithPassword(t *testing.T, password string) user.User {
	t.Helper()

	u := testUser()

	digest, err := security.HashPassword(serviceSecret, password, security.Salt(u.CreatedAt))

	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	u.HashedPassword = &digest

	return u
}

func newTestService(lookup UserLookup) *Service {
	codec := NewCodec(serviceSecret, 30*time.Minute)

	return NewService(lookup, codec, serviceSecret)
}

func TestIssueTokenSuccess(t *testing.T) {
	u := activeUserWithPassword(t, "p1")

	svc := newTestService(&fakeLookup{
		getFn: func(ctx context.Context, username string) (user.User, error) {
			if username != "john_doe" {
				return user.User{}, user.ErrNotFound
			}
			return u, nil
		},
	})

	token, err := svc.IssueToken(context.Background(), Credentials{Username: "john_doe", Password: "p1"})

	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	if token == "" {
		t.Fatalf("expected a token string")
	}
}

// All three failure causes must be indistinguishable to the caller.
func TestIssueTokenAntiEnumeration(t *testing.T) {
	withPassword := activeUserWithPassword(t, "p1")
	withoutPassword := testUser()

	tests := []struct {
		name  string
		creds Credentials
		getFn func(ctx context.Context, username string) (user.User, error)
	}{
		{
			name:  "unknown username",
			creds: Credentials{Username: "nobody", Password: "p1"},
			getFn: func(ctx context.Context, username string) (user.User, error) {
				return user.User{}, user.ErrNotFound
			},
		},
		{
			name:  "no password set",
			creds: Credentials{Username: "john_doe", Password: "p1"},
			getFn: func(ctx context.Context, username string) (user.User, error) {
				return withoutPassword, nil
			},
		},
		{
			name:  "wrong password",
			creds: Credentials{Username: "john_doe", Password: "p2"},
			getFn: func(ctx context.Context, username string) (user.User, error) {
				return withPassword, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeLookup{getFn: tt.getFn})

			_, err := svc.IssueToken(context.Background(), tt.creds)

			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestIssueTokenLookupFailurePassesThrough(t *testing.T) {
	boom := errors.New("connection refused")

	svc := newTestService(&fakeLookup{
		getFn: func(ctx context.Context, username string) (user.User, error) {
			return user.User{}, boom
		},
	})

	_, err := svc.IssueToken(context.Background(), Credentials{Username: "john_doe", Password: "p1"})

	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("infrastructure failure must not masquerade as bad credentials")
	}

	if !errors.Is(err, boom) {
		t.Fatalf("expected the lookup error, got %v", err)
	}
}

func TestResolveUser(t *testing.T) {
	u := activeUserWithPassword(t, "p1")

	svc := newTestService(&fakeLookup{
		getFn: func(ctx context.Context, username string) (user.User, error) {
			if username == u.Username {
				return u, nil
			}
			return user.User{}, user.ErrNotFound
		},
	})

	token, err := svc.IssueToken(context.Background(), Credentials{Username: "john_doe", Password: "p1"})

	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	resolved, err := svc.ResolveUser(context.Background(), token)

	if err != nil {
		t.Fatalf("ResolveUser error: %v", err)
	}

	if resolved.ID != u.ID {
		t.Fatalf("expected user id %d, got %d", u.ID, resolved.ID)
	}
}

func TestResolveUserMalformedToken(t *testing.T) {
	svc := newTestService(&fakeLookup{})

	_, err := svc.ResolveUser(context.Background(), "not.a.token")

	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestResolveUserSubjectGone(t *testing.T) {
	u := activeUserWithPassword(t, "p1")

	// issue against a store that knows the user, resolve against one that
	// does not: the token outlived the account
	issuer := newTestService(&fakeLookup{
		getFn: func(ctx context.Context, username string) (user.User, error) {
			return u, nil
		},
	})

	token, err := issuer.IssueToken(context.Background(), Credentials{Username: "john_doe", Password: "p1"})

	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	resolver := newTestService(&fakeLookup{})

	_, err = resolver.ResolveUser(context.Background(), token)

	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

// End to end: issue, resolve, deactivate, resolve again. The inactive
// failure must be distinct from the malformed-token failure.
func TestResolveUserDeactivation(t *testing.T) {
	u := activeUserWithPassword(t, "p1")

	store := &fakeLookup{
		getFn: func(ctx context.Context, username string) (user.User, error) {
			return u, nil
		},
	}

	svc := newTestService(store)

	token, err := svc.IssueToken(context.Background(), Credentials{Username: "john_doe", Password: "p1"})

	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	if _, err := svc.ResolveUser(context.Background(), token); err != nil {
		t.Fatalf("ResolveUser error before deactivation: %v", err)
	}

	u.IsActive = false
	store.getFn = func(ctx context.Context, username string) (user.User, error) {
		return u, nil
	}

	_, err = svc.ResolveUser(context.Background(), token)

	if !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}

	if errors.Is(err, ErrInvalidToken) {
		t.Fatalf("inactive must not be reported as an invalid token")
	}
}

func TestResolveUserExpiredWindow(t *testing.T) {
	u := activeUserWithPassword(t, "p1")

	lookup := &fakeLookup{
		getFn: func(ctx context.Context, username string) (user.User, error) {
			return u, nil
		},
	}

	// a codec whose window is already closed
	expired := NewService(lookup, NewCodec(serviceSecret, -1*time.Second), serviceSecret)

	token, err := expired.IssueToken(context.Background(), Credentials{Username: "john_doe", Password: "p1"})

	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	_, err = expired.ResolveUser(context.Background(), token)

	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
