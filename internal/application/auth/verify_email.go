package auth

import (
	"context"
	"strings"

	"github.com/contacthub/contacthub/internal/domain"
)

// RequestVerification re-sends the verification mail.
// IMPORTANT: non-enumerating. Unknown addresses and already-confirmed
// accounts both report success without publishing anything.
func (s *Service) RequestVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.ErrMissingField("email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Unknown address reports success. A storage failure does not.
		if domain.Is(err, "user_not_found") {
			return nil
		}
		return err
	}
	if u.Confirmed {
		return nil
	}

	return s.publishVerifyEmail(ctx, u)
}

// ConfirmEmail consumes a verification token and marks the account
// confirmed. Confirming twice is a success, not an error. Any token
// problem collapses into a single verification error so the endpoint
// leaks nothing about why the link failed.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrEmailVerification()
	}

	email, err := s.codec.Decode(token, domain.PurposeEmailVerify)
	if err != nil {
		return domain.ErrEmailVerification()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.ErrEmailVerification()
		}
		return err
	}
	if u.Confirmed {
		return nil
	}

	if err := s.users.ConfirmEmail(ctx, u.Email); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, u.Email)
	}
	s.audit("email_verified", map[string]string{"email": u.Email})
	return nil
}
