package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/contacthub/contacthub/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const userColumns = `id, username, email, password_hash, avatar, COALESCE(refresh_token, ''), role, confirmed, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Avatar,
		&u.RefreshToken,
		&u.Role,
		&u.Confirmed,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "duplicate")
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = normalizeEmail(u.Email)
	if u.Email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}
	if u.Role == "" {
		u.Role = string(domain.RoleUser)
	}

	const q = `
INSERT INTO users (username, email, password_hash, avatar, role, confirmed)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING ` + userColumns + `;
`
	created, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.Username, u.Email, u.PasswordHash, u.Avatar, u.Role, u.Confirmed,
	))
	if err != nil {
		if isDuplicate(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return created, nil
}

// UpdateRefreshToken overwrites the stored refresh token unconditionally.
// Used on login, where any previously issued refresh token is invalidated
// wholesale.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, userID int64, token string) error {
	const q = `
UPDATE users
SET refresh_token = NULLIF($2, ''),
    updated_at = NOW()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, userID, token)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

// SwapRefreshToken rotates the stored refresh token only if it still equals
// old. Zero rows matched means another rotation won the race (or the token
// was revoked) and the caller must fail closed.
func (r *UserRepo) SwapRefreshToken(ctx context.Context, userID int64, old, updated string) error {
	const q = `
UPDATE users
SET refresh_token = NULLIF($3, ''),
    updated_at = NOW()
WHERE id = $1
  AND refresh_token IS NOT DISTINCT FROM NULLIF($2, '');
`
	res, err := r.db.ExecContext(ctx, q, userID, old, updated)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrRefreshTokenInvalid()
	}
	return nil
}

// ClearRefreshToken revokes the stored refresh token, forcing re-login.
func (r *UserRepo) ClearRefreshToken(ctx context.Context, userID int64) error {
	const q = `
UPDATE users
SET refresh_token = NULL,
    updated_at = NOW()
WHERE id = $1;
`
	if _, err := r.db.ExecContext(ctx, q, userID); err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

// ConfirmEmail marks the user confirmed. Already-confirmed rows still
// match, so repeat confirmations stay idempotent.
func (r *UserRepo) ConfirmEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	const q = `
UPDATE users
SET confirmed = TRUE,
    updated_at = NOW()
WHERE email = $1;
`
	res, err := r.db.ExecContext(ctx, q, email)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) UpdateAvatar(ctx context.Context, email, url string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
UPDATE users
SET avatar = $2,
    updated_at = NOW()
WHERE email = $1
RETURNING ` + userColumns + `;
`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email, url))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return u, nil
}
