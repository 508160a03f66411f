package handler

import (
	"context"
	"time"

	"skillbridge/internal/database"
	"skillbridge/internal/infrastructure/cache"
	"skillbridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db    database.DB
	redis *cache.Redis
}

func NewHealthHandler(db database.DB, redis *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
}

func (h *HealthHandler) Liveness(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

// Readiness pings the backing stores. Redis is best effort; the service runs
// degraded without it, so only the database gates readiness.
func (h *HealthHandler) Readiness(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}

	status := fiber.StatusOK
	if h.db == nil {
		checks["database"] = "unavailable"
		status = fiber.StatusServiceUnavailable
	} else if err := h.db.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = fiber.StatusServiceUnavailable
	}

	if h.redis == nil {
		checks["redis"] = "disabled"
	} else if err := h.redis.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
	}

	msg := response.MessageOK
	if status != fiber.StatusOK {
		msg = "not ready"
	}
	return response.Success(c, status, msg, checks)
}
