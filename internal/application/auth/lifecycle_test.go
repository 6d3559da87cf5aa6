package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contacthub/contacthub/internal/domain"
)

// Walks a fresh account through the whole verification flow: signup, a
// login attempt that bounces off the unconfirmed gate, confirmation via
// the token from the published event, a successful login, and finally
// identity resolution with the issued access token.
func TestAccountLifecycle(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, "dave", "dave@example.com", "secret-password")
	require.NoError(t, err)
	assert.False(t, u.Confirmed)

	// login is gated until the address is confirmed
	_, err = svc.Login(ctx, u.Email, "secret-password")
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "email_not_confirmed", de.Code)

	// the signup event carries the confirmation link; peel off the token
	require.Len(t, d.pub.events, 1)
	link := d.pub.events[0].URL
	require.True(t, strings.HasPrefix(link, "http://localhost/api/auth/confirmed_email/"))
	token := strings.TrimPrefix(link, "http://localhost/api/auth/confirmed_email/")

	require.NoError(t, svc.ConfirmEmail(ctx, token))

	toks, err := svc.Login(ctx, u.Email, "secret-password")
	require.NoError(t, err)
	require.NotEmpty(t, toks.AccessToken)

	got, err := svc.CurrentIdentity(ctx, toks.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.Confirmed)
}
