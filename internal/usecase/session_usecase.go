package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillbridge/internal/domain/match"
	"skillbridge/internal/domain/points"
	"skillbridge/internal/domain/session"
	"skillbridge/internal/repository"
	"skillbridge/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionForbidden = errors.New("session forbidden")
	ErrSessionConflict  = errors.New("session conflict")
	ErrMatchNotAccepted = errors.New("match not accepted")
)

// A session costs the learner a fixed number of points at booking time; the
// teacher earns the same amount when the session completes.
const sessionCost = 10

type ScheduleSessionInput struct {
	MatchID     uuid.UUID
	Skill       string
	ScheduledAt time.Time
	// Teaching marks the caller as the teacher of the session.
	Teaching bool
}

type SessionUsecase interface {
	Schedule(ctx context.Context, callerID uuid.UUID, in ScheduleSessionInput) (session.Session, error)
	Complete(ctx context.Context, callerID, sessionID uuid.UUID) (session.Session, error)
	Cancel(ctx context.Context, callerID, sessionID uuid.UUID) (session.Session, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]session.Session, error)
}

type Sessions struct {
	sessions repository.SessionRepository
	matches  repository.MatchRepository
}

func NewSessionUsecase(sessions repository.SessionRepository, matches repository.MatchRepository) *Sessions {
	return &Sessions{sessions: sessions, matches: matches}
}

// Schedule books a session off an accepted match. The learner pays the
// session cost up front; insufficient balance blocks the booking.
func (u *Sessions) Schedule(ctx context.Context, callerID uuid.UUID, in ScheduleSessionInput) (session.Session, error) {
	if callerID == uuid.Nil {
		return session.Session{}, ErrUnauthorized
	}
	skill := strings.TrimSpace(in.Skill)
	if skill == "" || in.ScheduledAt.IsZero() || in.ScheduledAt.Before(time.Now()) {
		return session.Session{}, ErrInvalidInput
	}

	m, err := u.matches.GetByID(ctx, in.MatchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return session.Session{}, ErrMatchNotFound
		}
		return session.Session{}, ErrInternal
	}
	if m.RequesterID != callerID && m.CandidateID != callerID {
		return session.Session{}, ErrMatchForbidden
	}
	if m.Status != match.StatusAccepted {
		return session.Session{}, ErrMatchNotAccepted
	}

	other := m.RequesterID
	if callerID == m.RequesterID {
		other = m.CandidateID
	}

	teacherID, learnerID := other, callerID
	if in.Teaching {
		teacherID, learnerID = callerID, other
	}

	s := session.Session{
		ID:          uuid.New(),
		MatchID:     m.ID,
		TeacherID:   teacherID,
		LearnerID:   learnerID,
		Skill:       skill,
		ScheduledAt: in.ScheduledAt.UTC(),
		Status:      session.StatusScheduled,
		CreatedAt:   time.Now().UTC(),
	}

	// One transaction covers the charge and the booking; neither lands
	// without the other.
	charge := points.Transaction{
		UserID: learnerID,
		Amount: -sessionCost,
		Type:   points.TypeSpend,
		Reason: "session booking: " + skill,
	}
	if err := u.sessions.InsertWithCharge(ctx, s, charge); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientPoints):
			return session.Session{}, ErrInsufficientPoints
		case errors.Is(err, repository.ErrProfileNotFound):
			return session.Session{}, ErrProfileNotFound
		default:
			return session.Session{}, ErrInternal
		}
	}

	ws.NotifySessionScheduled(other, s.ID, s.Skill, s.ScheduledAt)

	return s, nil
}

// Complete marks a scheduled session done and pays the teacher.
func (u *Sessions) Complete(ctx context.Context, callerID, sessionID uuid.UUID) (session.Session, error) {
	s, err := u.participantSession(ctx, callerID, sessionID)
	if err != nil {
		return session.Session{}, err
	}

	updated, err := u.sessions.UpdateStatusWithLedger(ctx, s.ID, session.StatusScheduled, session.StatusCompleted, points.Transaction{
		UserID: s.TeacherID,
		Amount: sessionCost,
		Type:   points.TypeEarn,
		Reason: "teaching session: " + s.Skill,
	})
	if err != nil {
		return session.Session{}, mapSessionStatusErr(err)
	}
	return updated, nil
}

// Cancel voids a scheduled session and refunds the learner's booking fee.
func (u *Sessions) Cancel(ctx context.Context, callerID, sessionID uuid.UUID) (session.Session, error) {
	s, err := u.participantSession(ctx, callerID, sessionID)
	if err != nil {
		return session.Session{}, err
	}

	updated, err := u.sessions.UpdateStatusWithLedger(ctx, s.ID, session.StatusScheduled, session.StatusCancelled, points.Transaction{
		UserID: s.LearnerID,
		Amount: sessionCost,
		Type:   points.TypeAdjust,
		Reason: "booking refund: " + s.Skill,
	})
	if err != nil {
		return session.Session{}, mapSessionStatusErr(err)
	}
	return updated, nil
}

func (u *Sessions) ListSessions(ctx context.Context, userID uuid.UUID) ([]session.Session, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	out, err := u.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Sessions) participantSession(ctx context.Context, callerID, sessionID uuid.UUID) (session.Session, error) {
	if callerID == uuid.Nil {
		return session.Session{}, ErrUnauthorized
	}

	s, err := u.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return session.Session{}, ErrSessionNotFound
		}
		return session.Session{}, ErrInternal
	}
	if s.TeacherID != callerID && s.LearnerID != callerID {
		return session.Session{}, ErrSessionForbidden
	}
	return s, nil
}

func mapSessionStatusErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrSessionStatusConflict):
		return ErrSessionConflict
	case errors.Is(err, repository.ErrSessionNotFound):
		return ErrSessionNotFound
	default:
		return ErrInternal
	}
}
