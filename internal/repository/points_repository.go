package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/points"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrInsufficientPoints = errors.New("insufficient points")

type PointsRepository interface {
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	Apply(ctx context.Context, t points.Transaction) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]points.Transaction, error)
}

type PostgresPointsRepository struct {
	db database.DB
}

func NewPostgresPointsRepository(db database.DB) *PostgresPointsRepository {
	return &PostgresPointsRepository{db: db}
}

func (r *PostgresPointsRepository) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	row := r.db.QueryRow(ctx, `SELECT points FROM profiles WHERE id = $1`, userID)
	var balance int64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrProfileNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Apply writes one ledger entry and adjusts the cached balance atomically.
// A negative amount that would take the balance below zero rolls back with
// ErrInsufficientPoints.
func (r *PostgresPointsRepository) Apply(ctx context.Context, t points.Transaction) (int64, error) {
	var balance int64
	err := database.WithinTx(ctx, r.db, func(tx database.Tx) error {
		var err error
		balance, err = applyInTx(ctx, tx, t)
		return err
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func applyInTx(ctx context.Context, tx database.Tx, t points.Transaction) (int64, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	row := tx.QueryRow(ctx, `SELECT points FROM profiles WHERE id = $1 FOR UPDATE`, t.UserID)
	var balance int64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrProfileNotFound
		}
		return 0, err
	}

	balance += t.Amount
	if balance < 0 {
		return 0, ErrInsufficientPoints
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO points_transactions (id, user_id, amount, type, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.UserID, t.Amount, t.Type, t.Reason, t.CreatedAt,
	); err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE profiles SET points = $2, updated_at = now() WHERE id = $1`,
		t.UserID, balance,
	); err != nil {
		return 0, err
	}

	return balance, nil
}

func (r *PostgresPointsRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]points.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, amount, type, reason, created_at
		 FROM points_transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]points.Transaction, 0, limit)
	for rows.Next() {
		var t points.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Reason, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
