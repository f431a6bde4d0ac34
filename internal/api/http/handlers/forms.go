package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-marketplace-client/internal/api/dto"
	apperrors "github.com/spec-kit/car-marketplace-client/pkg/util/errorutil"
)

// formRejected reports the first invalid field and returns to the form.
func formRejected(c *fiber.Ctx, err error, fallback string) error {
	errs := dto.FieldErrors(err)
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	message := "invalid form"
	if len(fields) > 0 {
		message = fields[0] + ": " + errs[fields[0]]
	}
	setFlash(c, "error", message)
	return redirectBack(c, fallback)
}

// mutationFailed turns a rejected backend mutation into a flash message.
// Anything else goes to the error middleware.
func mutationFailed(c *fiber.Ctx, err error, fallback string) error {
	if !apperrors.IsValidation(err) && !apperrors.IsNotFound(err) {
		return err
	}
	setFlash(c, "error", apperrors.ToDomainError(err).Message)
	return redirectBack(c, fallback)
}
