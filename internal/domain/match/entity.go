package match

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Result pairs a requester with a candidate peer at a compatibility score.
// Scores are not normalized across runs; results from different query
// parameters are not directly comparable.
type Result struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	CandidateID uuid.UUID
	Score       float64
	Status      Status
	CreatedAt   time.Time
}
