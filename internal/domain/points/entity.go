package points

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeEarn   TransactionType = "earn"
	TypeSpend  TransactionType = "spend"
	TypeAdjust TransactionType = "adjust"
)

// Transaction is one ledger entry; the user's balance is the running sum.
// Amount is positive for earn, negative for spend.
type Transaction struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    int64
	Type      TransactionType
	Reason    string
	CreatedAt time.Time
}
