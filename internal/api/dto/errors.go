package dto

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// FieldErrors flattens ozzo validation errors into field -> message for
// templates. A non-validation error is reported under "form".
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(fieldErrs))
	for field, ferr := range fieldErrs {
		if ferr != nil {
			out[field] = ferr.Error()
		}
	}
	return out
}
