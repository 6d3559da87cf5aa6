package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/contacthub/contacthub/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// runValidation maps the first validator failure onto a domain error, so
// every bad request is reported the same way regardless of which DTO it
// came from.
func runValidation(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInvalidJSON(err)
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	if fe.Tag() == "required" {
		return domain.ErrMissingField(field)
	}
	reason := fe.Tag()
	if fe.Param() != "" {
		reason += "=" + fe.Param()
	}
	return domain.ErrInvalidField(field, reason)
}
