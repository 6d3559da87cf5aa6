package http_handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/contacthub/contacthub/internal/application/auth"
	"github.com/contacthub/contacthub/internal/application/contacts"
	"github.com/contacthub/contacthub/internal/domain"
)

// In-memory ports, enough to drive real services through the handlers.

type memUserRepo struct {
	byEmail map[string]domain.User
	nextID  int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]domain.User), nextID: 1}
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *memUserRepo) Create(_ context.Context, u domain.User) (domain.User, error) {
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.byEmail[u.Email] = u
	return u, nil
}

func (r *memUserRepo) UpdateRefreshToken(_ context.Context, userID int64, token string) error {
	for email, u := range r.byEmail {
		if u.ID == userID {
			u.RefreshToken = token
			r.byEmail[email] = u
			return nil
		}
	}
	return domain.ErrUserNotFound()
}

func (r *memUserRepo) SwapRefreshToken(_ context.Context, userID int64, old, updated string) error {
	for email, u := range r.byEmail {
		if u.ID == userID {
			if u.RefreshToken != old {
				return domain.ErrRefreshTokenInvalid()
			}
			u.RefreshToken = updated
			r.byEmail[email] = u
			return nil
		}
	}
	return domain.ErrRefreshTokenInvalid()
}

func (r *memUserRepo) ClearRefreshToken(_ context.Context, userID int64) error {
	for email, u := range r.byEmail {
		if u.ID == userID {
			u.RefreshToken = ""
			r.byEmail[email] = u
			return nil
		}
	}
	return nil
}

func (r *memUserRepo) ConfirmEmail(_ context.Context, email string) error {
	u, ok := r.byEmail[email]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Confirmed = true
	r.byEmail[email] = u
	return nil
}

func (r *memUserRepo) UpdateAvatar(_ context.Context, email, url string) (domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u.Avatar = url
	r.byEmail[email] = u
	return u, nil
}

type memHasher struct{}

func (memHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (memHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// memCodec issues transparent tokens so tests can assert on them.
type memCodec struct{}

func (memCodec) Issue(subject string, purpose domain.TokenPurpose, _ time.Duration) (string, error) {
	return fmt.Sprintf("%s|%s", purpose, subject), nil
}

func (memCodec) Decode(token string, expected domain.TokenPurpose) (string, error) {
	parts := strings.SplitN(token, "|", 2)
	if len(parts) != 2 {
		return "", domain.ErrTokenInvalid()
	}
	if parts[0] != string(expected) {
		return "", domain.ErrTokenScopeInvalid()
	}
	return parts[1], nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (domain.User, bool, error) {
	return domain.User{}, false, nil
}
func (nopCache) Set(context.Context, domain.User, time.Duration) error    { return nil }
func (nopCache) Expire(context.Context, string, time.Duration) error     { return nil }
func (nopCache) Invalidate(context.Context, string) error                { return nil }

type memPublisher struct {
	events []auth.VerifyEmailEvent
}

func (p *memPublisher) PublishVerifyEmail(_ context.Context, evt auth.VerifyEmailEvent) error {
	p.events = append(p.events, evt)
	return nil
}

type memImageHost struct {
	lastKey string
}

func (h *memImageHost) Upload(_ context.Context, key string, data io.Reader, _ string, _ int64) (string, error) {
	_, _ = io.ReadAll(data)
	h.lastKey = key
	return "https://img.test/" + key, nil
}

type memContactRepo struct {
	byID   map[int64]domain.Contact
	nextID int64
}

func newMemContactRepo() *memContactRepo {
	return &memContactRepo{byID: make(map[int64]domain.Contact), nextID: 1}
}

func (r *memContactRepo) Create(_ context.Context, c domain.Contact) (domain.Contact, error) {
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.byID[c.ID] = c
	return c, nil
}

func (r *memContactRepo) GetByID(_ context.Context, id, userID int64) (domain.Contact, error) {
	c, ok := r.byID[id]
	if !ok || c.UserID != userID {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	return c, nil
}

func (r *memContactRepo) List(_ context.Context, userID int64, limit, offset int) ([]domain.Contact, error) {
	out := make([]domain.Contact, 0)
	for id := int64(1); id < r.nextID; id++ {
		c, ok := r.byID[id]
		if ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return page(out, limit, offset), nil
}

func (r *memContactRepo) ListAll(_ context.Context, limit, offset int) ([]domain.Contact, error) {
	out := make([]domain.Contact, 0)
	for id := int64(1); id < r.nextID; id++ {
		if c, ok := r.byID[id]; ok {
			out = append(out, c)
		}
	}
	return page(out, limit, offset), nil
}

func (r *memContactRepo) Update(_ context.Context, c domain.Contact) (domain.Contact, error) {
	stored, ok := r.byID[c.ID]
	if !ok || stored.UserID != c.UserID {
		return domain.Contact{}, domain.ErrContactNotFound()
	}
	c.CreatedAt = stored.CreatedAt
	c.UpdatedAt = time.Now()
	r.byID[c.ID] = c
	return c, nil
}

func (r *memContactRepo) Delete(_ context.Context, id, userID int64) error {
	c, ok := r.byID[id]
	if !ok || c.UserID != userID {
		return domain.ErrContactNotFound()
	}
	delete(r.byID, id)
	return nil
}

func (r *memContactRepo) Search(_ context.Context, userID int64, query string, limit, offset int) ([]domain.Contact, error) {
	q := strings.ToLower(query)
	out := make([]domain.Contact, 0)
	for id := int64(1); id < r.nextID; id++ {
		c, ok := r.byID[id]
		if !ok || c.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	return page(out, limit, offset), nil
}

func (r *memContactRepo) UpcomingBirthdays(_ context.Context, userID int64, days int) ([]domain.Contact, error) {
	now := time.Now()
	out := make([]domain.Contact, 0)
	for id := int64(1); id < r.nextID; id++ {
		c, ok := r.byID[id]
		if !ok || c.UserID != userID || c.Birthday.IsZero() {
			continue
		}
		for d := 0; d < days; d++ {
			day := now.AddDate(0, 0, d)
			if c.Birthday.Month() == day.Month() && c.Birthday.Day() == day.Day() {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func page(cs []domain.Contact, limit, offset int) []domain.Contact {
	if offset >= len(cs) {
		return []domain.Contact{}
	}
	cs = cs[offset:]
	if limit < len(cs) {
		cs = cs[:limit]
	}
	return cs
}

// testEnv bundles a full service stack over the in-memory ports.
type testEnv struct {
	users    *memUserRepo
	pub      *memPublisher
	images   *memImageHost
	contacts *memContactRepo

	authSvc    *auth.Service
	contactSvc *contacts.Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    newMemUserRepo(),
		pub:      &memPublisher{},
		images:   &memImageHost{},
		contacts: newMemContactRepo(),
	}
	env.authSvc = auth.NewService(
		env.users, memHasher{}, memCodec{}, nopCache{}, env.pub, env.images,
		auth.Config{VerifyEmailBaseURL: "http://localhost/api/auth/confirmed_email/"},
	)
	env.contactSvc = contacts.NewService(env.contacts)
	return env
}

func (e *testEnv) seedUser(email string, confirmed bool) domain.User {
	u, err := e.users.Create(context.Background(), domain.User{
		Username:     "alice",
		Email:        email,
		PasswordHash: "hashed:correct-password",
		Role:         string(domain.RoleUser),
		Confirmed:    confirmed,
	})
	if err != nil {
		panic(err)
	}
	return u
}
