package dto

import "github.com/contacthub/contacthub/internal/domain"

type ContactView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Birthday  string `json:"birthday,omitempty"` // YYYY-MM-DD, empty when unknown
	Notes     string `json:"notes,omitempty"`
}

func NewContactView(c domain.Contact) ContactView {
	v := ContactView{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
	}
	if !c.Birthday.IsZero() {
		v.Birthday = c.Birthday.Format(birthdayLayout)
	}
	return v
}

func NewContactViews(cs []domain.Contact) []ContactView {
	out := make([]ContactView, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewContactView(c))
	}
	return out
}
