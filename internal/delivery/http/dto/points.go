package dto

import (
	"time"

	"skillbridge/internal/domain/points"

	"github.com/google/uuid"
)

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

type TransactionResponse struct {
	ID        uuid.UUID `json:"id"`
	Amount    int64     `json:"amount"`
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func FromTransactions(in []points.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(in))
	for _, t := range in {
		out = append(out, TransactionResponse{
			ID:        t.ID,
			Amount:    t.Amount,
			Type:      string(t.Type),
			Reason:    t.Reason,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}
