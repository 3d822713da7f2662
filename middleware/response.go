package middleware

import (
	"errors"

	"jetacademy/logging"
	"jetacademy/storage"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// StorageErrorResponse maps a storage error to 404 or a logged 500.
func StorageErrorResponse(c *fiber.Ctx, err error, notFoundMessage string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return JsonResponse(c, fiber.StatusNotFound, false, notFoundMessage, nil)
	}
	logging.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("storage failure")
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong. Please try again.", nil)
}

// ErrorHandler renders errors that escape handlers, including recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong. Please try again."

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")
	}
	return JsonResponse(c, code, false, message, nil)
}
