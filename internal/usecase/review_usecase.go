package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/session"
	"skillbridge/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrSessionNotCompleted = errors.New("session not completed")
	ErrAlreadyReviewed     = errors.New("already reviewed")
)

const maxReviewCommentLen = 500

type CreateReviewInput struct {
	SessionID uuid.UUID
	Rating    int
	Comment   string
}

type ReviewUsecase interface {
	CreateReview(ctx context.Context, reviewerID uuid.UUID, in CreateReviewInput) (review.Review, error)
	ListReviewsForUser(ctx context.Context, userID uuid.UUID) ([]review.Review, error)
}

type Reviews struct {
	reviews  repository.ReviewRepository
	sessions repository.SessionRepository
}

func NewReviewUsecase(reviews repository.ReviewRepository, sessions repository.SessionRepository) *Reviews {
	return &Reviews{reviews: reviews, sessions: sessions}
}

// CreateReview records a rating for the other participant of a completed
// session. One review per session per reviewer.
func (u *Reviews) CreateReview(ctx context.Context, reviewerID uuid.UUID, in CreateReviewInput) (review.Review, error) {
	if reviewerID == uuid.Nil {
		return review.Review{}, ErrUnauthorized
	}
	if in.Rating < 1 || in.Rating > 5 {
		return review.Review{}, ErrInvalidInput
	}
	comment := strings.TrimSpace(in.Comment)
	if len(comment) > maxReviewCommentLen {
		return review.Review{}, ErrInvalidInput
	}

	s, err := u.sessions.GetByID(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return review.Review{}, ErrSessionNotFound
		}
		return review.Review{}, ErrInternal
	}
	if s.TeacherID != reviewerID && s.LearnerID != reviewerID {
		return review.Review{}, ErrSessionForbidden
	}
	if s.Status != session.StatusCompleted {
		return review.Review{}, ErrSessionNotCompleted
	}

	exists, err := u.reviews.ExistsForSession(ctx, s.ID, reviewerID)
	if err != nil {
		return review.Review{}, ErrInternal
	}
	if exists {
		return review.Review{}, ErrAlreadyReviewed
	}

	revieweeID := s.TeacherID
	if reviewerID == s.TeacherID {
		revieweeID = s.LearnerID
	}

	rv := review.Review{
		ID:         uuid.New(),
		SessionID:  s.ID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     in.Rating,
		Comment:    comment,
		CreatedAt:  time.Now().UTC(),
	}
	if err := u.reviews.Insert(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrReviewAlreadyExists) {
			return review.Review{}, ErrAlreadyReviewed
		}
		return review.Review{}, ErrInternal
	}
	return rv, nil
}

func (u *Reviews) ListReviewsForUser(ctx context.Context, userID uuid.UUID) ([]review.Review, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	out, err := u.reviews.ListForUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}
