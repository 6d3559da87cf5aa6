package auth

import (
	"context"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/logger"
)

// CurrentIdentity resolves the user behind an access token, cache first.
// Cache failures degrade to a database lookup and never fail the request.
func (s *Service) CurrentIdentity(ctx context.Context, accessToken string) (domain.User, error) {
	if accessToken == "" {
		return domain.User{}, domain.ErrTokenMissing()
	}

	email, err := s.codec.Decode(accessToken, domain.PurposeAccess)
	if err != nil {
		return domain.User{}, err
	}

	if s.cache != nil {
		u, ok, err := s.cache.Get(ctx, email)
		if err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("identity cache read")
		} else if ok {
			return u, nil
		}
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// A valid signature over a vanished account still means the
		// bearer is not anyone we know. Infrastructure failures are
		// not the bearer's fault and keep their own kind.
		if domain.Is(err, "user_not_found") {
			return domain.User{}, domain.ErrTokenInvalid()
		}
		return domain.User{}, err
	}

	s.cacheIdentity(ctx, u)
	return u, nil
}
