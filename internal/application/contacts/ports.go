package contacts

import (
	"context"

	"github.com/contacthub/contacthub/internal/domain"
)

// ContactRepo is the persistence port for contacts. Every owner-scoped
// method takes the owning user's id; rows of other users behave as missing.
type ContactRepo interface {
	Create(ctx context.Context, c domain.Contact) (domain.Contact, error)
	GetByID(ctx context.Context, id, userID int64) (domain.Contact, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]domain.Contact, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Contact, error)
	Update(ctx context.Context, c domain.Contact) (domain.Contact, error)
	Delete(ctx context.Context, id, userID int64) error
	Search(ctx context.Context, userID int64, query string, limit, offset int) ([]domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID int64, days int) ([]domain.Contact, error)
}
