package dto

import (
	"time"

	"skillbridge/internal/domain/review"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	RevieweeID uuid.UUID `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromReview(r review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		SessionID:  r.SessionID,
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func FromReviews(in []review.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(in))
	for _, r := range in {
		out = append(out, FromReview(r))
	}
	return out
}
