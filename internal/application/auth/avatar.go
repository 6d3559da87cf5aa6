package auth

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/contacthub/contacthub/internal/domain"
)

// UpdateAvatar uploads a new avatar image and persists its URL. The object
// key is random so a replaced avatar never collides with a cached one.
func (s *Service) UpdateAvatar(ctx context.Context, u domain.User, filename, contentType string, data io.Reader, size int64) (domain.User, error) {
	if s.images == nil {
		return domain.User{}, domain.ErrImageHostUnavailable(fmt.Errorf("no image host configured"))
	}

	ext := path.Ext(filename)
	key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), ext)

	url, err := s.images.Upload(ctx, key, data, contentType, size)
	if err != nil {
		return domain.User{}, domain.ErrImageHostUnavailable(err)
	}

	updated, err := s.users.UpdateAvatar(ctx, u.Email, url)
	if err != nil {
		return domain.User{}, err
	}

	// Refresh the snapshot and keep its TTL so the new avatar shows up
	// without waiting out the old entry.
	if s.cache != nil {
		_ = s.cache.Set(ctx, updated, s.identityTTL)
		_ = s.cache.Expire(ctx, updated.Email, s.identityTTL)
	}

	s.audit("avatar_updated", map[string]string{"email": updated.Email})
	return updated, nil
}
