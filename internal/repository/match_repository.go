package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/match"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchStatusConflict = errors.New("match status conflict")
)

type MatchInsert struct {
	RequesterID uuid.UUID
	CandidateID uuid.UUID
	Score       float64
}

type MatchRepository interface {
	Insert(ctx context.Context, in MatchInsert) (match.Result, error)
	GetByID(ctx context.Context, id uuid.UUID) (match.Result, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]match.Result, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to match.Status) (match.Result, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Insert appends one row per ranked candidate. Runs are not deduplicated:
// every trigger produces fresh pending rows, matching the ledger-style
// history the product keeps.
func (r *PostgresMatchRepository) Insert(ctx context.Context, in MatchInsert) (match.Result, error) {
	m := match.Result{
		ID:          uuid.New(),
		RequesterID: in.RequesterID,
		CandidateID: in.CandidateID,
		Score:       in.Score,
		Status:      match.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO matches (id, requester_id, candidate_id, score, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.RequesterID, m.CandidateID, m.Score, m.Status, m.CreatedAt,
	)
	if err != nil {
		return match.Result{}, err
	}
	return m, nil
}

func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (match.Result, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, requester_id, candidate_id, score, status, created_at
		 FROM matches WHERE id = $1`,
		id,
	)
	return scanMatch(row)
}

func (r *PostgresMatchRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]match.Result, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, requester_id, candidate_id, score, status, created_at
		 FROM matches
		 WHERE requester_id = $1 OR candidate_id = $1
		 ORDER BY created_at DESC, score DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Result, 0)
	for rows.Next() {
		var m match.Result
		if err := rows.Scan(&m.ID, &m.RequesterID, &m.CandidateID, &m.Score, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus transitions a match only from the expected status; a stale
// transition reports ErrMatchStatusConflict instead of clobbering.
func (r *PostgresMatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to match.Status) (match.Result, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE matches SET status = $3 WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return match.Result{}, err
	}
	if n == 0 {
		m, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return match.Result{}, ErrMatchNotFound
		}
		if m.Status != from {
			return match.Result{}, ErrMatchStatusConflict
		}
		return match.Result{}, ErrMatchNotFound
	}
	return r.GetByID(ctx, id)
}

func scanMatch(row database.Row) (match.Result, error) {
	var m match.Result
	if err := row.Scan(&m.ID, &m.RequesterID, &m.CandidateID, &m.Score, &m.Status, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return match.Result{}, ErrMatchNotFound
		}
		return match.Result{}, err
	}
	return m, nil
}
