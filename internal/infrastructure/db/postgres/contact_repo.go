package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/contacthub/contacthub/internal/domain"
)

type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

const contactColumns = `id, user_id, first_name, last_name, email, phone, COALESCE(birthday, '0001-01-01'::date), notes, created_at, updated_at`

func scanContactRow(row *sql.Row) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.Birthday,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func scanContacts(rows *sql.Rows) ([]domain.Contact, error) {
	defer rows.Close()

	out := make([]domain.Contact, 0, 16)
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.FirstName,
			&c.LastName,
			&c.Email,
			&c.Phone,
			&c.Birthday,
			&c.Notes,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// nullableBirthday maps the zero time back to SQL NULL so "unknown birthday"
// never shows up as year 1 in the table.
func nullableBirthday(c domain.Contact) interface{} {
	if c.Birthday.IsZero() {
		return nil
	}
	return c.Birthday
}

func (r *ContactRepo) Create(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	const q = `
INSERT INTO contacts (user_id, first_name, last_name, email, phone, birthday, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + contactColumns + `;
`
	created, err := scanContactRow(r.db.QueryRowContext(ctx, q,
		c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, nullableBirthday(c), c.Notes,
	))
	if err != nil {
		if isDuplicate(err) {
			return domain.Contact{}, domain.ErrContactAlreadyExists()
		}
		return domain.Contact{}, domain.ErrDBUnavailable(err)
	}
	return created, nil
}

// GetByID scopes the lookup to the owner. Rows belonging to other users are
// indistinguishable from missing rows.
func (r *ContactRepo) GetByID(ctx context.Context, id, userID int64) (domain.Contact, error) {
	const q = `
SELECT ` + contactColumns + `
FROM contacts
WHERE id = $1 AND user_id = $2
LIMIT 1;
`
	c, err := scanContactRow(r.db.QueryRowContext(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contact{}, domain.ErrContactNotFound()
		}
		return domain.Contact{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

func (r *ContactRepo) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Contact, error) {
	const q = `
SELECT ` + contactColumns + `
FROM contacts
WHERE user_id = $1
ORDER BY id
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	out, err := scanContacts(rows)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

// ListAll ignores ownership. Callers gate it behind the moderator role check.
func (r *ContactRepo) ListAll(ctx context.Context, limit, offset int) ([]domain.Contact, error) {
	const q = `
SELECT ` + contactColumns + `
FROM contacts
ORDER BY id
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	out, err := scanContacts(rows)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *ContactRepo) Update(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	const q = `
UPDATE contacts
SET first_name = $3,
    last_name = $4,
    email = $5,
    phone = $6,
    birthday = $7,
    notes = $8,
    updated_at = NOW()
WHERE id = $1 AND user_id = $2
RETURNING ` + contactColumns + `;
`
	updated, err := scanContactRow(r.db.QueryRowContext(ctx, q,
		c.ID, c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, nullableBirthday(c), c.Notes,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contact{}, domain.ErrContactNotFound()
		}
		if isDuplicate(err) {
			return domain.Contact{}, domain.ErrContactAlreadyExists()
		}
		return domain.Contact{}, domain.ErrDBUnavailable(err)
	}
	return updated, nil
}

func (r *ContactRepo) Delete(ctx context.Context, id, userID int64) error {
	const q = `DELETE FROM contacts WHERE id = $1 AND user_id = $2;`

	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrContactNotFound()
	}
	return nil
}

// Search matches the query case-insensitively against first name, last name
// and email.
func (r *ContactRepo) Search(ctx context.Context, userID int64, query string, limit, offset int) ([]domain.Contact, error) {
	const q = `
SELECT ` + contactColumns + `
FROM contacts
WHERE user_id = $1
  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)
ORDER BY id
LIMIT $3 OFFSET $4;
`
	rows, err := r.db.QueryContext(ctx, q, userID, "%"+query+"%", limit, offset)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	out, err := scanContacts(rows)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

// UpcomingBirthdays returns contacts whose birthday (month and day, year
// ignored) falls within the next days days, starting today. The comparison
// runs on the database clock so the API server's timezone never skews it.
func (r *ContactRepo) UpcomingBirthdays(ctx context.Context, userID int64, days int) ([]domain.Contact, error) {
	if days <= 0 {
		days = 7
	}

	const q = `
SELECT ` + contactColumns + `
FROM contacts
WHERE user_id = $1
  AND birthday IS NOT NULL
  AND to_char(birthday, 'MM-DD') = ANY (
    SELECT to_char(CURRENT_DATE + offs, 'MM-DD')
    FROM generate_series(0, $2::int - 1) AS offs
  )
ORDER BY to_char(birthday, 'MM-DD'), id;
`
	rows, err := r.db.QueryContext(ctx, q, userID, days)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	out, err := scanContacts(rows)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
