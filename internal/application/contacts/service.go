package contacts

import (
	"context"
	"strings"
	"time"

	"github.com/contacthub/contacthub/internal/domain"
)

const (
	defaultLimit = 10
	maxLimit     = 100

	birthdayWindowDays = 7
)

type Service struct {
	repo ContactRepo
}

func NewService(repo ContactRepo) *Service {
	return &Service{repo: repo}
}

// clampPage normalizes limit/offset so a hostile query string cannot ask
// for the whole table.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type CreateParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  time.Time // zero means unknown
	Notes     string
}

func (s *Service) Create(ctx context.Context, owner domain.User, p CreateParams) (domain.Contact, error) {
	if strings.TrimSpace(p.FirstName) == "" {
		return domain.Contact{}, domain.ErrMissingField("first_name")
	}
	return s.repo.Create(ctx, domain.Contact{
		UserID:    owner.ID,
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		Phone:     strings.TrimSpace(p.Phone),
		Birthday:  p.Birthday,
		Notes:     p.Notes,
	})
}

func (s *Service) Get(ctx context.Context, owner domain.User, id int64) (domain.Contact, error) {
	return s.repo.GetByID(ctx, id, owner.ID)
}

func (s *Service) List(ctx context.Context, owner domain.User, limit, offset int) ([]domain.Contact, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.List(ctx, owner.ID, limit, offset)
}

// ListAll returns contacts across all owners. The caller gates it behind
// the moderator role check.
func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]domain.Contact, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListAll(ctx, limit, offset)
}

// UpdateParams carries a partial update. Nil fields keep their stored
// value; a non-nil zero time clears the birthday.
type UpdateParams struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *time.Time
	Notes     *string
}

func (s *Service) Update(ctx context.Context, owner domain.User, id int64, p UpdateParams) (domain.Contact, error) {
	current, err := s.repo.GetByID(ctx, id, owner.ID)
	if err != nil {
		return domain.Contact{}, err
	}

	if p.FirstName != nil {
		if strings.TrimSpace(*p.FirstName) == "" {
			return domain.Contact{}, domain.ErrInvalidField("first_name", "empty")
		}
		current.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		current.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		current.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Phone != nil {
		current.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Birthday != nil {
		current.Birthday = *p.Birthday
	}
	if p.Notes != nil {
		current.Notes = *p.Notes
	}

	return s.repo.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, owner domain.User, id int64) error {
	return s.repo.Delete(ctx, id, owner.ID)
}

// Search matches the query against names and email. An empty query is a
// plain list, not an error.
func (s *Service) Search(ctx context.Context, owner domain.User, query string, limit, offset int) ([]domain.Contact, error) {
	limit, offset = clampPage(limit, offset)
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx, owner.ID, limit, offset)
	}
	return s.repo.Search(ctx, owner.ID, query, limit, offset)
}

// UpcomingBirthdays lists contacts with a birthday in the next seven days,
// today included, year ignored.
func (s *Service) UpcomingBirthdays(ctx context.Context, owner domain.User) ([]domain.Contact, error) {
	return s.repo.UpcomingBirthdays(ctx, owner.ID, birthdayWindowDays)
}
