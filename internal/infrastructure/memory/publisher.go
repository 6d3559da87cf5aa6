package memory

import (
	"context"

	"github.com/contacthub/contacthub/internal/application/auth"
	"github.com/contacthub/contacthub/internal/logger"
)

// NoopPublisher logs events instead of delivering them. Used in dev
// environments without a running broker.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishVerifyEmail(ctx context.Context, evt auth.VerifyEmailEvent) error {
	logger.WithCtx(ctx).Info().
		Str("email", evt.Email).
		Str("url", evt.URL).
		Msg("noop publisher: verify email")
	return nil
}
