package dto

import (
	"strings"
	"time"

	"github.com/contacthub/contacthub/internal/application/contacts"
	"github.com/contacthub/contacthub/internal/domain"
)

const birthdayLayout = "2006-01-02"

type ContactCreateRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"max=30"`
	Birthday  string `json:"birthday" validate:"omitempty"`
	Notes     string `json:"notes" validate:"max=500"`
}

func (r *ContactCreateRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if err := runValidation(r); err != nil {
		return err
	}
	if r.Birthday != "" {
		if _, err := time.Parse(birthdayLayout, r.Birthday); err != nil {
			return domain.ErrInvalidField("birthday", "expected YYYY-MM-DD")
		}
	}
	return nil
}

func (r *ContactCreateRequest) Params() contacts.CreateParams {
	p := contacts.CreateParams{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Notes:     r.Notes,
	}
	if r.Birthday != "" {
		p.Birthday, _ = time.Parse(birthdayLayout, r.Birthday)
	}
	return p
}

// ContactUpdateRequest is a partial update. Absent fields stay untouched;
// an explicit empty birthday clears the stored one.
type ContactUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Birthday  *string `json:"birthday"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

func (r *ContactUpdateRequest) Validate() error {
	if r.Email != nil {
		v := strings.TrimSpace(strings.ToLower(*r.Email))
		r.Email = &v
	}
	if err := runValidation(r); err != nil {
		return err
	}
	if r.Birthday != nil && *r.Birthday != "" {
		if _, err := time.Parse(birthdayLayout, *r.Birthday); err != nil {
			return domain.ErrInvalidField("birthday", "expected YYYY-MM-DD")
		}
	}
	return nil
}

func (r *ContactUpdateRequest) Params() contacts.UpdateParams {
	p := contacts.UpdateParams{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Notes:     r.Notes,
	}
	if r.Birthday != nil {
		var bd time.Time
		if *r.Birthday != "" {
			bd, _ = time.Parse(birthdayLayout, *r.Birthday)
		}
		p.Birthday = &bd
	}
	return p
}
