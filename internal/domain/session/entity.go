package session

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Session struct {
	ID          uuid.UUID
	MatchID     uuid.UUID
	TeacherID   uuid.UUID
	LearnerID   uuid.UUID
	Skill       string
	ScheduledAt time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
