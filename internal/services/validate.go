package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/devconnect/backend/internal/utils"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validationFields maps validator output onto the (field, message) pairs the
// error contract exposes. Messages come from msgs keyed by lowercased struct
// field name; field order follows struct declaration order.
func validationFields(err error, msgs map[string]string) []utils.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []utils.FieldError{{Field: "body", Message: "invalid input"}}
	}

	out := make([]utils.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		msg, ok := msgs[field]
		if !ok {
			msg = field + " is invalid"
		}
		out = append(out, utils.FieldError{Field: field, Message: msg})
	}
	return out
}
