package auth

import (
	"context"

	"github.com/open-gym/backend/internal/cache"
	"github.com/open-gym/backend/internal/domain/user"
)

// CachedLookup puts a short TTL cache in front of a UserLookup. Every
// authenticated request resolves its bearer's user row, which makes
// by-username lookups the hottest query in the system.
type CachedLookup struct {
	next  UserLookup
	cache *cache.Cache
}

func NewCachedLookup(next UserLookup, c *cache.Cache) *CachedLookup {
	return &CachedLookup{
		next:  next,
		cache: c,
	}
}

func (l *CachedLookup) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if v, ok := l.cache.Get(username); ok {
		if u, ok := v.(user.User); ok {
			return u, nil
		}
	}

	u, err := l.next.GetByUsername(ctx, username)

	if err != nil {
		// negative results are not cached: a just-created user should be
		// able to authenticate immediately
		return user.User{}, err
	}

	l.cache.Set(username, u)

	return u, nil
}

// Invalidate drops a user from the cache. Called after any mutation that
// touches the row.
func (l *CachedLookup) Invalidate(username string) {
	l.cache.Delete(username)
}
