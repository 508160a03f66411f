package middleware

import (
	"errors"
	"log"

	"skillbridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError carries an HTTP status alongside the underlying cause. Handlers
// return it; the error middleware renders it. Causes are never exposed to
// clients.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware() *ErrorMiddleware {
	return &ErrorMiddleware{logger: log.Default()}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("panic recovered | path=%s err=%v", c.OriginalURL(), r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := m.normalize(c, err)
		return response.Error(c, status, msg, data)
	}
}

// normalize maps an error to a renderable status. Anything 5xx or unknown is
// logged and masked as a plain internal server error.
func (m *ErrorMiddleware) normalize(c fiber.Ctx, err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode >= 100 && appErr.StatusCode < 500 {
			return appErr.StatusCode, appErr.Message, appErr.Data
		}
		m.logger.Printf("request failed | path=%s err=%v", c.OriginalURL(), appErr)
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= 100 && fiberErr.Code < 500 {
			return fiberErr.Code, fiberErr.Message, nil
		}
		m.logger.Printf("request failed | path=%s err=%v", c.OriginalURL(), fiberErr)
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	m.logger.Printf("request failed | path=%s err=%v", c.OriginalURL(), err)
	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
