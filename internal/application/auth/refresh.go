package auth

import (
	"context"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/logger"
)

// Refresh rotates a refresh token and issues a new pair.
// Rotation rule: the old refresh token becomes invalid once used. A
// presented token that does not match the stored one is treated as reuse
// (likely theft) and revokes the session outright.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, domain.ErrRefreshTokenInvalid()
	}

	email, err := s.codec.Decode(refreshToken, domain.PurposeRefresh)
	if err != nil {
		return TokenPair{}, domain.ErrRefreshTokenInvalid()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// User gone since the token was minted. Treat as invalid session.
		if domain.Is(err, "user_not_found") {
			return TokenPair{}, domain.ErrRefreshTokenInvalid()
		}
		return TokenPair{}, err
	}

	if u.RefreshToken != refreshToken {
		// Reuse of a rotated-out token. Revoke so the holder of the
		// current token is cut off too.
		s.audit("refresh_reuse_detected", map[string]string{"email": u.Email})
		if err := s.users.ClearRefreshToken(ctx, u.ID); err != nil {
			logger.WithCtx(ctx).Error().Err(err).Msg("revoke refresh token")
		}
		if s.cache != nil {
			_ = s.cache.Invalidate(ctx, u.Email)
		}
		return TokenPair{}, domain.ErrRefreshTokenInvalid()
	}

	toks, err := s.issueTokens(u.Email)
	if err != nil {
		return TokenPair{}, err
	}

	// Compare-and-swap so a concurrent rotation of the same token cannot
	// mint two live refresh tokens.
	if err := s.users.SwapRefreshToken(ctx, u.ID, refreshToken, toks.RefreshToken); err != nil {
		return TokenPair{}, err
	}

	u.RefreshToken = toks.RefreshToken
	s.cacheIdentity(ctx, u)

	s.audit("token_refreshed", map[string]string{"email": u.Email})
	return toks, nil
}
