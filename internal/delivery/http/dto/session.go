package dto

import (
	"time"

	"skillbridge/internal/domain/session"

	"github.com/google/uuid"
)

type SessionResponse struct {
	ID          uuid.UUID `json:"id"`
	MatchID     uuid.UUID `json:"match_id"`
	TeacherID   uuid.UUID `json:"teacher_id"`
	LearnerID   uuid.UUID `json:"learner_id"`
	Skill       string    `json:"skill"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromSession(s session.Session) SessionResponse {
	return SessionResponse{
		ID:          s.ID,
		MatchID:     s.MatchID,
		TeacherID:   s.TeacherID,
		LearnerID:   s.LearnerID,
		Skill:       s.Skill,
		ScheduledAt: s.ScheduledAt,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
	}
}

func FromSessions(in []session.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(in))
	for _, s := range in {
		out = append(out, FromSession(s))
	}
	return out
}
