package serverutils

import (
	"errors"

	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var backendErr *service.BackendError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrNoteAlreadySaved):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNoteNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrBackendUnavailable), errors.As(err, &backendErr):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// NewErrorHandler renders every error returned by a handler as {success:false, code, message}.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status := StatusFor(err)
		message := err.Error()

		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": status,
				"error":  err.Error(),
			})
			if status == fiber.StatusInternalServerError {
				message = "internal server error"
			}
		}

		return ErrorResponse(ctx, status, message)
	}
}
