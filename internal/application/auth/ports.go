package auth

import (
	"context"
	"io"
	"time"

	"github.com/contacthub/contacthub/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth flows need, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// Refresh token lifecycle. UpdateRefreshToken overwrites unconditionally
	// (login); SwapRefreshToken succeeds only when the stored value still
	// equals old (rotation); ClearRefreshToken revokes.
	UpdateRefreshToken(ctx context.Context, userID int64, token string) error
	SwapRefreshToken(ctx context.Context, userID int64, old, updated string) error
	ClearRefreshToken(ctx context.Context, userID int64) error

	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email, url string) (domain.User, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenCodec
----------
Issues and verifies purpose-scoped tokens (JWT).
Used by the service + auth middleware.
*/
type TokenCodec interface {
	Issue(subject string, purpose domain.TokenPurpose, ttl time.Duration) (string, error)
	Decode(token string, expected domain.TokenPurpose) (subject string, err error)
}

/*
IdentityCache
-------------
Best-effort snapshot cache keyed by email. A failing cache must degrade
to a miss; it never blocks authentication.
*/
type IdentityCache interface {
	Get(ctx context.Context, email string) (domain.User, bool, error)
	Set(ctx context.Context, u domain.User, ttl time.Duration) error
	Expire(ctx context.Context, email string, ttl time.Duration) error
	Invalidate(ctx context.Context, email string) error
}

/*
EventPublisher
--------------
Publishes events to the broker. The mail worker consumes these and sends
emails; this service does not talk SMTP itself.
*/
type EventPublisher interface {
	PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error
}

type VerifyEmailEvent struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	URL      string `json:"url"`
}

/*
ImageHost
---------
Stores avatar images and returns a publicly reachable URL.
*/
type ImageHost interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) (string, error)
}
