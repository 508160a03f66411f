package handler

import (
	"errors"
	"time"

	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SessionHandler struct {
	uc usecase.SessionUsecase
}

type scheduleSessionRequest struct {
	MatchID     uuid.UUID `json:"match_id"`
	Skill       string    `json:"skill"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Teaching    bool      `json:"teaching"`
}

func NewSessionHandler(uc usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Schedule)
	r.Get("/", h.List)
	r.Post("/:session_id/complete", h.Complete)
	r.Post("/:session_id/cancel", h.Cancel)
}

func (h *SessionHandler) Schedule(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req scheduleSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.uc.Schedule(c.Context(), userID, usecase.ScheduleSessionInput{
		MatchID:     req.MatchID,
		Skill:       req.Skill,
		ScheduledAt: req.ScheduledAt,
		Teaching:    req.Teaching,
	})
	if err != nil {
		return mapSessionUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.FromSession(s))
}

func (h *SessionHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	sessions, err := h.uc.ListSessions(c.Context(), userID)
	if err != nil {
		return mapSessionUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromSessions(sessions))
}

func (h *SessionHandler) Complete(c fiber.Ctx) error {
	return h.transition(c, true)
}

func (h *SessionHandler) Cancel(c fiber.Ctx) error {
	return h.transition(c, false)
}

func (h *SessionHandler) transition(c fiber.Ctx, complete bool) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	sessionID, err := uuid.Parse(c.Params("session_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	apply := h.uc.Cancel
	if complete {
		apply = h.uc.Complete
	}

	updated, err := apply(c.Context(), userID, sessionID)
	if err != nil {
		return mapSessionUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromSession(updated))
}

func mapSessionUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match not found", nil, err)
	case errors.Is(err, usecase.ErrSessionForbidden), errors.Is(err, usecase.ErrMatchForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrSessionConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Session already resolved", nil, err)
	case errors.Is(err, usecase.ErrMatchNotAccepted):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Match not accepted", nil, err)
	case errors.Is(err, usecase.ErrInsufficientPoints):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Insufficient points", nil, err)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
