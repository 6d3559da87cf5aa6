package auth

import (
	"context"
	"time"

	"github.com/contacthub/contacthub/internal/domain"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	codec  TokenCodec
	cache  IdentityCache
	pub    EventPublisher
	images ImageHost

	accessTTL   time.Duration
	refreshTTL  time.Duration
	verifyTTL   time.Duration
	identityTTL time.Duration

	// Base for links delivered by the mail worker,
	// e.g. https://api.example.com/api/auth/confirmed_email/
	verifyEmailBaseURL string

	audit func(action string, fields map[string]string)
}

type Config struct {
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	VerifyEmailTokenTTL time.Duration
	IdentityCacheTTL    time.Duration
	VerifyEmailBaseURL  string
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	codec TokenCodec,
	cache IdentityCache,
	pub EventPublisher,
	images ImageHost,
	cfg Config,
) *Service {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.VerifyEmailTokenTTL <= 0 {
		cfg.VerifyEmailTokenTTL = 24 * time.Hour
	}
	if cfg.IdentityCacheTTL <= 0 {
		cfg.IdentityCacheTTL = 10 * time.Minute
	}
	return &Service{
		users:  users,
		hasher: hasher,
		codec:  codec,
		cache:  cache,
		pub:    pub,
		images: images,

		accessTTL:   cfg.AccessTokenTTL,
		refreshTTL:  cfg.RefreshTokenTTL,
		verifyTTL:   cfg.VerifyEmailTokenTTL,
		identityTTL: cfg.IdentityCacheTTL,

		verifyEmailBaseURL: cfg.VerifyEmailBaseURL,

		audit: func(string, map[string]string) {},
	}
}

// WithAudit installs an audit sink for security-relevant actions.
func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// TokenPair is the common token output for handlers/DTO mapping.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // "bearer"
	ExpiresIn    int64  // access token lifetime, seconds
}

// issueTokens signs a fresh access/refresh pair for the user. Persisting
// the refresh token is the caller's job since login and rotation store it
// differently.
func (s *Service) issueTokens(email string) (TokenPair, error) {
	access, err := s.codec.Issue(email, domain.PurposeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.codec.Issue(email, domain.PurposeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// cacheIdentity refreshes the cached snapshot. Best effort only.
func (s *Service) cacheIdentity(ctx context.Context, u domain.User) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, u, s.identityTTL)
}
