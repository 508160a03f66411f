package repository

import (
	"context"
	"database/sql"
	"errors"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileUpdate struct {
	Name           *string
	Bio            *string
	Timezone       *string
	TeachingSkills []string
	LearningSkills []string
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.Profile, error)
	ListAll(ctx context.Context) ([]user.Profile, error)
	Update(ctx context.Context, id uuid.UUID, in ProfileUpdate) (user.Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `id, name, bio, timezone, teaching_skills, learning_skills,
	points, rating_average, rating_count, created_at, updated_at`

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (user.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`,
		id,
	)
	return scanProfileRow(row)
}

// ListAll returns every profile. Candidate enumeration is a full scan; cost
// grows linearly with the user count.
func (r *PostgresProfileRepository) ListAll(ctx context.Context) ([]user.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, id uuid.UUID, in ProfileUpdate) (user.Profile, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET
			name = COALESCE($2, name),
			bio = COALESCE($3, bio),
			timezone = COALESCE($4, timezone),
			teaching_skills = COALESCE($5, teaching_skills),
			learning_skills = COALESCE($6, learning_skills),
			updated_at = now()
		 WHERE id = $1`,
		id, in.Name, in.Bio, in.Timezone, in.TeachingSkills, in.LearningSkills,
	)
	if err != nil {
		return user.Profile{}, err
	}
	if n == 0 {
		return user.Profile{}, ErrProfileNotFound
	}
	return r.GetByID(ctx, id)
}

type profileScanner interface {
	Scan(dest ...any) error
}

func scanProfile(s profileScanner) (user.Profile, error) {
	var p user.Profile
	err := s.Scan(
		&p.ID, &p.Name, &p.Bio, &p.Timezone,
		&p.TeachingSkills, &p.LearningSkills,
		&p.Points, &p.RatingAverage, &p.RatingCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return user.Profile{}, err
	}
	return p, nil
}

func scanProfileRow(row database.Row) (user.Profile, error) {
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return user.Profile{}, ErrProfileNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}
