package handler

import (
	"errors"
	"strconv"

	"skillbridge/internal/delivery/http/dto"
	"skillbridge/internal/delivery/http/middleware"
	"skillbridge/internal/pkg/response"
	"skillbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const defaultHistoryLimit = 50

type PointsHandler struct {
	uc usecase.PointsUsecase
}

type adjustPointsRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

func NewPointsHandler(uc usecase.PointsUsecase) *PointsHandler {
	return &PointsHandler{uc: uc}
}

func (h *PointsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/balance", h.Balance)
	r.Get("/history", h.History)
	r.Post("/adjust", h.Adjust)
}

func (h *PointsHandler) Balance(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	balance, err := h.uc.Balance(c.Context(), userID)
	if err != nil {
		return mapPointsUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.BalanceResponse{Balance: balance})
}

func (h *PointsHandler) History(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
		}
		limit = n
	}

	txs, err := h.uc.History(c.Context(), userID, limit)
	if err != nil {
		return mapPointsUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromTransactions(txs))
}

func (h *PointsHandler) Adjust(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req adjustPointsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	balance, err := h.uc.Adjust(c.Context(), userID, req.Amount, req.Reason)
	if err != nil {
		return mapPointsUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.BalanceResponse{Balance: balance})
}

func mapPointsUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
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
