package dto

import (
	"time"

	"skillbridge/internal/domain/match"

	"github.com/google/uuid"
)

type MatchResponse struct {
	ID          uuid.UUID `json:"id"`
	RequesterID uuid.UUID `json:"requester_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Score       float64   `json:"score"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromMatch(m match.Result) MatchResponse {
	return MatchResponse{
		ID:          m.ID,
		RequesterID: m.RequesterID,
		CandidateID: m.CandidateID,
		Score:       m.Score,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

func FromMatches(in []match.Result) []MatchResponse {
	out := make([]MatchResponse, 0, len(in))
	for _, m := range in {
		out = append(out, FromMatch(m))
	}
	return out
}
