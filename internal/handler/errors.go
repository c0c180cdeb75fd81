package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"gtrends-go/pkg/interest"
	"gtrends-go/pkg/logger"
	"gtrends-go/pkg/trends"
)

// StatusFor maps an error from the service layer to an HTTP status.
func StatusFor(err error) int {
	var ferr *fiber.Error
	switch {
	case errors.As(err, &ferr):
		return ferr.Code
	case errors.Is(err, trends.ErrNoKeywords),
		errors.Is(err, trends.ErrInvalidPayload),
		errors.Is(err, interest.ErrUnknownKeyword):
		return fiber.StatusBadRequest
	case errors.Is(err, interest.ErrMalformedResponse):
		return fiber.StatusBadGateway
	case trends.IsRateLimited(err):
		return fiber.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, trends.ErrProvider):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler writes every handler error as an ErrorResponse.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := StatusFor(err)
		entry := log.WithError(err).WithFields(map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
		})
		if status >= fiber.StatusInternalServerError {
			entry.Error("Request failed")
		} else {
			entry.Debug("Request rejected")
		}
		return c.Status(status).JSON(ErrorResponse{Error: err.Error(), Status: status})
	}
}
