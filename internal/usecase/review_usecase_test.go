package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"skillbridge/internal/domain/review"
	"skillbridge/internal/domain/session"
	"skillbridge/internal/repository"

	"github.com/google/uuid"
)

type mockReviewRepo struct {
	reviews []review.Review
}

func (m *mockReviewRepo) Insert(_ context.Context, rv review.Review) error {
	for _, existing := range m.reviews {
		if existing.SessionID == rv.SessionID && existing.ReviewerID == rv.ReviewerID {
			return repository.ErrReviewAlreadyExists
		}
	}
	m.reviews = append(m.reviews, rv)
	return nil
}

func (m *mockReviewRepo) ListForUser(_ context.Context, revieweeID uuid.UUID) ([]review.Review, error) {
	out := make([]review.Review, 0)
	for _, rv := range m.reviews {
		if rv.RevieweeID == revieweeID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) ExistsForSession(_ context.Context, sessionID, reviewerID uuid.UUID) (bool, error) {
	for _, rv := range m.reviews {
		if rv.SessionID == sessionID && rv.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func completedSession(sessions *mockSessionRepo, teacher, learner uuid.UUID) session.Session {
	s := session.Session{
		ID:          uuid.New(),
		MatchID:     uuid.New(),
		TeacherID:   teacher,
		LearnerID:   learner,
		Skill:       "Guitar",
		ScheduledAt: time.Now().Add(-time.Hour),
		Status:      session.StatusCompleted,
	}
	sessions.byID[s.ID] = s
	return s
}

func TestCreateReview(t *testing.T) {
	teacher := uuid.New()
	learner := uuid.New()

	sessions := newMockSessionRepo()
	s := completedSession(sessions, teacher, learner)

	reviews := &mockReviewRepo{}
	u := NewReviewUsecase(reviews, sessions)

	rv, err := u.CreateReview(context.Background(), learner, CreateReviewInput{
		SessionID: s.ID,
		Rating:    5,
		Comment:   "great teacher",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rv.RevieweeID != teacher {
		t.Fatalf("review must target the other participant, got %s", rv.RevieweeID)
	}

	// Same reviewer, same session.
	_, err = u.CreateReview(context.Background(), learner, CreateReviewInput{SessionID: s.ID, Rating: 4})
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	// The teacher can still review the learner.
	rv2, err := u.CreateReview(context.Background(), teacher, CreateReviewInput{SessionID: s.ID, Rating: 4})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rv2.RevieweeID != learner {
		t.Fatalf("teacher's review must target the learner, got %s", rv2.RevieweeID)
	}
}

func TestCreateReview_Validation(t *testing.T) {
	teacher := uuid.New()
	learner := uuid.New()

	sessions := newMockSessionRepo()
	s := completedSession(sessions, teacher, learner)

	scheduled := session.Session{
		ID:        uuid.New(),
		TeacherID: teacher,
		LearnerID: learner,
		Skill:     "Guitar",
		Status:    session.StatusScheduled,
	}
	sessions.byID[scheduled.ID] = scheduled

	u := NewReviewUsecase(&mockReviewRepo{}, sessions)

	cases := []struct {
		name     string
		reviewer uuid.UUID
		in       CreateReviewInput
		wantErr  error
	}{
		{"rating too low", learner, CreateReviewInput{SessionID: s.ID, Rating: 0}, ErrInvalidInput},
		{"rating too high", learner, CreateReviewInput{SessionID: s.ID, Rating: 6}, ErrInvalidInput},
		{"comment too long", learner, CreateReviewInput{SessionID: s.ID, Rating: 3, Comment: strings.Repeat("x", 501)}, ErrInvalidInput},
		{"unknown session", learner, CreateReviewInput{SessionID: uuid.New(), Rating: 3}, ErrSessionNotFound},
		{"not a participant", uuid.New(), CreateReviewInput{SessionID: s.ID, Rating: 3}, ErrSessionForbidden},
		{"session not completed", learner, CreateReviewInput{SessionID: scheduled.ID, Rating: 3}, ErrSessionNotCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := u.CreateReview(context.Background(), tc.reviewer, tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
