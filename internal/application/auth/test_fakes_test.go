package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/contacthub/contacthub/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditRecorder struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditRecorder) record(action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *auditRecorder) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.action)
	}
	return out
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byEmail map[string]domain.User
	nextID  int64

	// injected errors
	getByEmailErr error
	createErr     error
	updateRTErr   error
	swapRTErr     error
	clearRTErr    error
	confirmErr    error
	avatarErr     error

	cleared []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) put(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	f.mu.Lock()
	if _, dup := f.byEmail[u.Email]; dup {
		f.mu.Unlock()
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.mu.Unlock()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return f.put(u), nil
}

func (f *fakeUserRepo) UpdateRefreshToken(ctx context.Context, userID int64, token string) error {
	if f.updateRTErr != nil {
		return f.updateRTErr
	}
	return f.setRefresh(userID, token)
}

func (f *fakeUserRepo) SwapRefreshToken(ctx context.Context, userID int64, old, updated string) error {
	if f.swapRTErr != nil {
		return f.swapRTErr
	}
	f.mu.Lock()
	for email, u := range f.byEmail {
		if u.ID == userID {
			if u.RefreshToken != old {
				f.mu.Unlock()
				return domain.ErrRefreshTokenInvalid()
			}
			u.RefreshToken = updated
			f.byEmail[email] = u
			f.mu.Unlock()
			return nil
		}
	}
	f.mu.Unlock()
	return domain.ErrUserNotFound()
}

func (f *fakeUserRepo) ClearRefreshToken(ctx context.Context, userID int64) error {
	if f.clearRTErr != nil {
		return f.clearRTErr
	}
	f.mu.Lock()
	f.cleared = append(f.cleared, userID)
	f.mu.Unlock()
	return f.setRefresh(userID, "")
}

func (f *fakeUserRepo) setRefresh(userID int64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.byEmail {
		if u.ID == userID {
			u.RefreshToken = token
			f.byEmail[email] = u
			return nil
		}
	}
	return domain.ErrUserNotFound()
}

func (f *fakeUserRepo) ConfirmEmail(ctx context.Context, email string) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Confirmed = true
	f.byEmail[email] = u
	return nil
}

func (f *fakeUserRepo) UpdateAvatar(ctx context.Context, email, url string) (domain.User, error) {
	if f.avatarErr != nil {
		return domain.User{}, f.avatarErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	u.Avatar = url
	f.byEmail[email] = u
	return u, nil
}

/*
fakeHasher avoids bcrypt cost in unit tests.
*/

type fakeHasher struct {
	hashErr error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + password, nil
}

func (f *fakeHasher) Compare(hash string, password string) error {
	if hash == "hashed:"+password {
		return nil
	}
	return fmt.Errorf("mismatch")
}

/*
fakeCodec issues transparent tokens of the form "purpose|subject|n" so
tests can assert rotation produced a different token.
*/

type fakeCodec struct {
	mu     sync.Mutex
	seq    int
	issued map[string]struct {
		subject string
		purpose domain.TokenPurpose
	}
	issueErr  error
	decodeErr error
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{issued: map[string]struct {
		subject string
		purpose domain.TokenPurpose
	}{}}
}

func (f *fakeCodec) Issue(subject string, purpose domain.TokenPurpose, ttl time.Duration) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	tok := fmt.Sprintf("%s|%s|%d", purpose, subject, f.seq)
	f.issued[tok] = struct {
		subject string
		purpose domain.TokenPurpose
	}{subject, purpose}
	return tok, nil
}

func (f *fakeCodec) Decode(token string, expected domain.TokenPurpose) (string, error) {
	if f.decodeErr != nil {
		return "", f.decodeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	meta, ok := f.issued[token]
	if !ok {
		return "", domain.ErrTokenInvalid()
	}
	if meta.purpose != expected {
		return "", domain.ErrTokenScopeInvalid()
	}
	return meta.subject, nil
}

/*
fakeCache is an in-memory IdentityCache with injectable failures.
*/

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]domain.User
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]domain.User{}}
}

func (f *fakeCache) Get(ctx context.Context, email string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.User{}, false, f.getErr
	}
	u, ok := f.entries[email]
	return u, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, u domain.User, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[u.Email] = u
	f.sets++
	return nil
}

func (f *fakeCache) Expire(ctx context.Context, email string, ttl time.Duration) error {
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, email)
	return nil
}

/*
fakePublisher records published verification events.
*/

type fakePublisher struct {
	mu         sync.Mutex
	events     []VerifyEmailEvent
	publishErr error
}

func (f *fakePublisher) PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

/*
fakeImageHost captures uploads and hands back deterministic URLs.
*/

type fakeImageHost struct {
	mu        sync.Mutex
	keys      []string
	uploadErr error
}

func (f *fakeImageHost) Upload(ctx context.Context, key string, data io.Reader, contentType string, size int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(data)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return "https://img.test/" + key, nil
}

/*
newTestService wires a Service over the fakes with short TTLs.
*/

type testDeps struct {
	users  *fakeUserRepo
	hasher *fakeHasher
	codec  *fakeCodec
	cache  *fakeCache
	pub    *fakePublisher
	images *fakeImageHost
	audit  *auditRecorder
}

func newTestService() (*Service, *testDeps) {
	d := &testDeps{
		users:  newFakeUserRepo(),
		hasher: &fakeHasher{},
		codec:  newFakeCodec(),
		cache:  newFakeCache(),
		pub:    &fakePublisher{},
		images: &fakeImageHost{},
		audit:  &auditRecorder{},
	}
	svc := NewService(d.users, d.hasher, d.codec, d.cache, d.pub, d.images, Config{
		AccessTokenTTL:      time.Minute,
		RefreshTokenTTL:     time.Hour,
		VerifyEmailTokenTTL: time.Hour,
		IdentityCacheTTL:    time.Minute,
		VerifyEmailBaseURL:  "http://localhost/api/auth/confirmed_email/",
	}).WithAudit(d.audit.record)
	return svc, d
}

func seedUser(d *testDeps, email string, confirmed bool) domain.User {
	return d.users.put(domain.User{
		Username:     "tester",
		Email:        email,
		PasswordHash: "hashed:correct-password",
		Role:         string(domain.RoleUser),
		Confirmed:    confirmed,
	})
}
