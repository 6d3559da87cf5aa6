package auth

import (
	"context"
	"strings"

	"github.com/contacthub/contacthub/internal/domain"
)

// Login authenticates a user and issues a token pair.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration),
// except for the unconfirmed-email case which the client needs to act on.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return TokenPair{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials.
		if domain.Is(err, "user_not_found") {
			s.audit("login_failed", map[string]string{"email": email, "reason": "unknown_user"})
			return TokenPair{}, domain.ErrInvalidCredentials()
		}
		return TokenPair{}, err
	}

	if !u.Confirmed {
		s.audit("login_failed", map[string]string{"email": email, "reason": "email_not_confirmed"})
		return TokenPair{}, domain.ErrEmailNotConfirmed()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		s.audit("login_failed", map[string]string{"email": email, "reason": "bad_password"})
		return TokenPair{}, domain.ErrInvalidCredentials()
	}

	toks, err := s.issueTokens(u.Email)
	if err != nil {
		return TokenPair{}, err
	}

	// A fresh login invalidates whatever refresh token was stored before.
	if err := s.users.UpdateRefreshToken(ctx, u.ID, toks.RefreshToken); err != nil {
		return TokenPair{}, err
	}

	u.RefreshToken = toks.RefreshToken
	s.cacheIdentity(ctx, u)

	s.audit("login_success", map[string]string{"email": u.Email})
	return toks, nil
}

// Logout revokes the stored refresh token and drops the cached identity.
func (s *Service) Logout(ctx context.Context, u domain.User) error {
	if err := s.users.ClearRefreshToken(ctx, u.ID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, u.Email)
	}
	s.audit("logout", map[string]string{"email": u.Email})
	return nil
}
