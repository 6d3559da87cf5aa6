package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/logger"
)

// Signup creates an unconfirmed account and kicks off email verification.
// The verification mail is best effort: a broker outage must not undo a
// successful registration.
func (s *Service) Signup(ctx context.Context, username, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.users.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Avatar:       gravatarURL(email),
		Role:         string(domain.RoleUser),
		Confirmed:    false,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("signup", map[string]string{"email": created.Email})

	if err := s.publishVerifyEmail(ctx, created); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).
			Str("email", created.Email).
			Msg("verification mail not published")
	}

	return created, nil
}

func (s *Service) publishVerifyEmail(ctx context.Context, u domain.User) error {
	if s.pub == nil {
		return nil
	}
	token, err := s.codec.Issue(u.Email, domain.PurposeEmailVerify, s.verifyTTL)
	if err != nil {
		return err
	}
	return s.pub.PublishVerifyEmail(ctx, VerifyEmailEvent{
		Email:    u.Email,
		Username: u.Username,
		URL:      s.verifyEmailBaseURL + token,
	})
}

// gravatarURL derives the default avatar from the email the way Gravatar
// expects: md5 hex of the trimmed, lowercased address.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:]))
}
