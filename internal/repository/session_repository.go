package repository

import (
	"context"
	"database/sql"
	"errors"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/points"
	"skillbridge/internal/domain/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionStatusConflict = errors.New("session status conflict")
)

type SessionRepository interface {
	InsertWithCharge(ctx context.Context, s session.Session, charge points.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (session.Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]session.Session, error)
	UpdateStatusWithLedger(ctx context.Context, id uuid.UUID, from, to session.Status, entry points.Transaction) (session.Session, error)
}

type PostgresSessionRepository struct {
	db database.DB
}

func NewPostgresSessionRepository(db database.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// InsertWithCharge books the session and writes the learner's charge in one
// transaction. An insufficient balance rolls back the booking.
func (r *PostgresSessionRepository) InsertWithCharge(ctx context.Context, s session.Session, charge points.Transaction) error {
	return database.WithinTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := applyInTx(ctx, tx, charge); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO sessions (id, match_id, teacher_id, learner_id, skill, scheduled_at, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
			s.ID, s.MatchID, s.TeacherID, s.LearnerID, s.Skill, s.ScheduledAt, s.Status, s.CreatedAt,
		)
		return err
	})
}

func (r *PostgresSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (session.Session, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, match_id, teacher_id, learner_id, skill, scheduled_at, status, created_at, updated_at
		 FROM sessions WHERE id = $1`,
		id,
	)
	return scanSession(row)
}

func (r *PostgresSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]session.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, match_id, teacher_id, learner_id, skill, scheduled_at, status, created_at, updated_at
		 FROM sessions
		 WHERE teacher_id = $1 OR learner_id = $1
		 ORDER BY scheduled_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]session.Session, 0)
	for rows.Next() {
		var s session.Session
		if err := rows.Scan(&s.ID, &s.MatchID, &s.TeacherID, &s.LearnerID, &s.Skill, &s.ScheduledAt, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatusWithLedger transitions the session status and writes the paired
// ledger entry in one transaction. The transition only applies while the
// current status still equals from; a failed ledger write rolls it back.
func (r *PostgresSessionRepository) UpdateStatusWithLedger(ctx context.Context, id uuid.UUID, from, to session.Status, entry points.Transaction) (session.Session, error) {
	var updated session.Session
	err := database.WithinTx(ctx, r.db, func(tx database.Tx) error {
		row := tx.QueryRow(ctx,
			`UPDATE sessions SET status = $3, updated_at = now()
			 WHERE id = $1 AND status = $2
			 RETURNING id, match_id, teacher_id, learner_id, skill, scheduled_at, status, created_at, updated_at`,
			id, from, to,
		)
		s, err := scanSession(row)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return sessionTransitionErr(ctx, tx, id, from)
			}
			return err
		}
		if _, err := applyInTx(ctx, tx, entry); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return session.Session{}, err
	}
	return updated, nil
}

// sessionTransitionErr disambiguates a guarded update that matched no row.
func sessionTransitionErr(ctx context.Context, tx database.Tx, id uuid.UUID, from session.Status) error {
	row := tx.QueryRow(ctx, `SELECT status FROM sessions WHERE id = $1`, id)
	var current session.Status
	if err := row.Scan(&current); err != nil {
		return ErrSessionNotFound
	}
	if current != from {
		return ErrSessionStatusConflict
	}
	return ErrSessionNotFound
}

func scanSession(row database.Row) (session.Session, error) {
	var s session.Session
	if err := row.Scan(&s.ID, &s.MatchID, &s.TeacherID, &s.LearnerID, &s.Skill, &s.ScheduledAt, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, ErrSessionNotFound
		}
		return session.Session{}, err
	}
	return s, nil
}
