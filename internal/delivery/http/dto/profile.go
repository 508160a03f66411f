package dto

import (
	"time"

	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	Timezone       string    `json:"timezone"`
	TeachingSkills []string  `json:"teaching_skills"`
	LearningSkills []string  `json:"learning_skills"`
	Points         int64     `json:"points"`
	RatingAverage  float64   `json:"rating_average"`
	RatingCount    int       `json:"rating_count"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromProfile(p user.Profile) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		Name:           p.Name,
		Bio:            p.Bio,
		Timezone:       p.Timezone,
		TeachingSkills: emptyIfNil(p.TeachingSkills),
		LearningSkills: emptyIfNil(p.LearningSkills),
		Points:         p.Points,
		RatingAverage:  p.RatingAverage,
		RatingCount:    p.RatingCount,
		CreatedAt:      p.CreatedAt,
	}
}

func FromProfiles(in []user.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(in))
	for _, p := range in {
		out = append(out, FromProfile(p))
	}
	return out
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
