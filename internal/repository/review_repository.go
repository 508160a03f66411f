package repository

import (
	"context"
	"errors"

	"skillbridge/internal/database"
	"skillbridge/internal/domain/review"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrReviewAlreadyExists = errors.New("review already exists")

type ReviewRepository interface {
	Insert(ctx context.Context, rv review.Review) error
	ListForUser(ctx context.Context, revieweeID uuid.UUID) ([]review.Review, error)
	ExistsForSession(ctx context.Context, sessionID, reviewerID uuid.UUID) (bool, error)
}

type PostgresReviewRepository struct {
	db database.DB
}

func NewPostgresReviewRepository(db database.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

// Insert stores the review and folds the rating into the reviewee's running
// average in the same transaction.
func (r *PostgresReviewRepository) Insert(ctx context.Context, rv review.Review) error {
	return database.WithinTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO reviews (id, session_id, reviewer_id, reviewee_id, rating, comment, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rv.ID, rv.SessionID, rv.ReviewerID, rv.RevieweeID, rv.Rating, rv.Comment, rv.CreatedAt,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrReviewAlreadyExists
			}
			return err
		}

		_, err := tx.Exec(ctx,
			`UPDATE profiles SET
				rating_average = (rating_average * rating_count + $2) / (rating_count + 1),
				rating_count = rating_count + 1,
				updated_at = now()
			 WHERE id = $1`,
			rv.RevieweeID, rv.Rating,
		)
		return err
	})
}

func (r *PostgresReviewRepository) ListForUser(ctx context.Context, revieweeID uuid.UUID) ([]review.Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, reviewer_id, reviewee_id, rating, comment, created_at
		 FROM reviews
		 WHERE reviewee_id = $1
		 ORDER BY created_at DESC`,
		revieweeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]review.Review, 0)
	for rows.Next() {
		var rv review.Review
		if err := rows.Scan(&rv.ID, &rv.SessionID, &rv.ReviewerID, &rv.RevieweeID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresReviewRepository) ExistsForSession(ctx context.Context, sessionID, reviewerID uuid.UUID) (bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE session_id = $1 AND reviewer_id = $2)`,
		sessionID, reviewerID,
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
