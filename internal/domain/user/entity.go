package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public face of a user: what they can teach, what they want
// to learn, and where they are. Skills are free-text strings.
type Profile struct {
	ID             uuid.UUID
	Name           string
	Bio            string
	Timezone       string
	TeachingSkills []string
	LearningSkills []string
	Points         int64
	RatingAverage  float64
	RatingCount    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
