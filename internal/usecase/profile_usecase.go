package usecase

import (
	"context"
	"errors"
	"strings"

	"skillbridge/internal/domain/user"
	"skillbridge/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

const maxSkillsPerList = 20

type UpdateProfileInput struct {
	Name           *string
	Bio            *string
	Timezone       *string
	TeachingSkills []string
	LearningSkills []string
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, id uuid.UUID) (user.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.Profile, error)
	ListProfiles(ctx context.Context) ([]user.Profile, error)
}

type Profile struct {
	profiles repository.ProfileRepository
}

func NewProfileUsecase(profiles repository.ProfileRepository) *Profile {
	return &Profile{profiles: profiles}
}

func (u *Profile) GetProfile(ctx context.Context, id uuid.UUID) (user.Profile, error) {
	if id == uuid.Nil {
		return user.Profile{}, ErrProfileNotFound
	}
	p, err := u.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return user.Profile{}, ErrProfileNotFound
		}
		return user.Profile{}, ErrInternal
	}
	return p, nil
}

func (u *Profile) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.Profile, error) {
	if userID == uuid.Nil {
		return user.Profile{}, ErrUnauthorized
	}

	upd := repository.ProfileUpdate{
		Bio:      in.Bio,
		Timezone: in.Timezone,
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return user.Profile{}, ErrInvalidInput
		}
		upd.Name = &name
	}

	var err error
	if in.TeachingSkills != nil {
		upd.TeachingSkills, err = cleanSkillList(in.TeachingSkills)
		if err != nil {
			return user.Profile{}, err
		}
	}
	if in.LearningSkills != nil {
		upd.LearningSkills, err = cleanSkillList(in.LearningSkills)
		if err != nil {
			return user.Profile{}, err
		}
	}

	p, err := u.profiles.Update(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return user.Profile{}, ErrProfileNotFound
		}
		return user.Profile{}, ErrInternal
	}
	return p, nil
}

func (u *Profile) ListProfiles(ctx context.Context) ([]user.Profile, error) {
	out, err := u.profiles.ListAll(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// cleanSkillList trims entries, drops blanks and duplicates, and bounds the
// list size. The result keeps the caller's ordering.
func cleanSkillList(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	if len(out) > maxSkillsPerList {
		return nil, ErrInvalidInput
	}
	return out, nil
}
