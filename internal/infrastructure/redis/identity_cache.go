package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/contacthub/contacthub/internal/domain"
)

// IdentityCache keeps a TTL-bounded JSON snapshot of a resolved user,
// keyed by email. It is a read-through shortcut, never the source of
// truth: callers treat every error as a miss and fall back to postgres.
type IdentityCache struct {
	rdb    *goredis.Client
	prefix string
}

func NewIdentityCache(c *Client) *IdentityCache {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &IdentityCache{
		rdb:    rdb,
		prefix: "user:",
	}
}

// identitySnapshot is the wire form of a cached user. The password hash
// and refresh token are deliberately not cached; the cache only serves
// identity lookups, never credential or rotation checks.
type identitySnapshot struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *IdentityCache) Get(ctx context.Context, email string) (domain.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, false, domain.ErrMissingField("email")
	}
	if c.rdb == nil {
		return domain.User{}, false, nil
	}

	val, err := c.rdb.Get(ctx, c.prefix+email).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, domain.ErrCacheUnavailable(err)
	}

	var snap identitySnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		// poisoned entry; drop it and report a miss
		_ = c.rdb.Del(ctx, c.prefix+email).Err()
		return domain.User{}, false, nil
	}

	return domain.User{
		ID:        snap.ID,
		Username:  snap.Username,
		Email:     snap.Email,
		Avatar:    snap.Avatar,
		Role:      snap.Role,
		Confirmed: snap.Confirmed,
		CreatedAt: snap.CreatedAt,
	}, true, nil
}

func (c *IdentityCache) Set(ctx context.Context, u domain.User, ttl time.Duration) error {
	if strings.TrimSpace(u.Email) == "" {
		return domain.ErrMissingField("email")
	}
	if c.rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	payload, err := json.Marshal(identitySnapshot{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      u.Role,
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
	})
	if err != nil {
		return domain.ErrInternal(err)
	}

	if err := c.rdb.Set(ctx, c.prefix+u.Email, payload, ttl).Err(); err != nil {
		return domain.ErrCacheUnavailable(err)
	}
	return nil
}

func (c *IdentityCache) Expire(ctx context.Context, email string, ttl time.Duration) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}
	if c.rdb == nil {
		return nil
	}

	if err := c.rdb.Expire(ctx, c.prefix+email, ttl).Err(); err != nil {
		return domain.ErrCacheUnavailable(err)
	}
	return nil
}

// Invalidate drops an entry outright (e.g. after a role change).
func (c *IdentityCache) Invalidate(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, c.prefix+email).Err(); err != nil {
		return domain.ErrCacheUnavailable(err)
	}
	return nil
}
