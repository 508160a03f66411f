package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
			c.Set("X-Request-ID", rid)
		}

		err := c.Next()

		// The auth middleware ran by now, so the user id is available for
		// authenticated routes.
		userID := "-"
		if id, ok := c.Locals(CtxUserIDKey).(uuid.UUID); ok {
			userID = id.String()
		}

		m.logger.Printf(
			"HTTP access | rid=%s user=%s ip=%s method=%s path=%s status=%d latency=%s resp_bytes=%d",
			rid, userID, c.IP(), c.Method(), c.OriginalURL(),
			c.Response().StatusCode(), time.Since(start), c.Response().Header.ContentLength(),
		)

		return err
	}
}
