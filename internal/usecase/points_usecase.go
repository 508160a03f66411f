package usecase

import (
	"context"
	"errors"
	"strings"

	"skillbridge/internal/domain/points"
	"skillbridge/internal/repository"

	"github.com/google/uuid"
)

var ErrInsufficientPoints = errors.New("insufficient points")

type PointsUsecase interface {
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]points.Transaction, error)
	Adjust(ctx context.Context, userID uuid.UUID, amount int64, reason string) (int64, error)
}

type Points struct {
	ledger repository.PointsRepository
}

func NewPointsUsecase(ledger repository.PointsRepository) *Points {
	return &Points{ledger: ledger}
}

func (u *Points) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthorized
	}
	balance, err := u.ledger.Balance(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return 0, ErrProfileNotFound
		}
		return 0, ErrInternal
	}
	return balance, nil
}

func (u *Points) History(ctx context.Context, userID uuid.UUID, limit int) ([]points.Transaction, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	out, err := u.ledger.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// Adjust applies an admin-style manual correction to a user's balance.
func (u *Points) Adjust(ctx context.Context, userID uuid.UUID, amount int64, reason string) (int64, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthorized
	}
	if amount == 0 {
		return 0, ErrInvalidInput
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "manual adjustment"
	}

	balance, err := u.ledger.Apply(ctx, points.Transaction{
		UserID: userID,
		Amount: amount,
		Type:   points.TypeAdjust,
		Reason: reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientPoints):
			return 0, ErrInsufficientPoints
		case errors.Is(err, repository.ErrProfileNotFound):
			return 0, ErrProfileNotFound
		default:
			return 0, ErrInternal
		}
	}
	return balance, nil
}
