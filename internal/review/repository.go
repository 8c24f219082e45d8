// CaterEase API | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/caterease/api/internal/core"
)

type Repository interface {
	GetOrderForReview(
		ctx context.Context,
		orderID int64,
	) (*OrderForReview, error)
	ExistsByOrderID(ctx context.Context, orderID int64) (bool, error)
	// Create inserts the review and recomputes the caterer's rating
	// summary in the same transaction, returning the new summary.
	Create(ctx context.Context, review *Review) (rating, count int, err error)
	ListByCaterer(ctx context.Context, catererID int64) ([]Review, error)
}

// repository holds the raw pool rather than core.DBTX because Create
// opens its own transaction.
type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrderForReview(
	ctx context.Context,
	orderID int64,
) (*OrderForReview, error) {
	query := `
		SELECT id, user_id, caterer_id, status
		FROM orders
		WHERE id = $1`

	var order OrderForReview
	err := r.db.GetContext(ctx, &order, query, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order for review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("order for review: %w", err)
	}

	return &order, nil
}

func (r *repository) ExistsByOrderID(
	ctx context.Context,
	orderID int64,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE order_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, orderID); err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}

	return exists, nil
}

func (r *repository) Create(
	ctx context.Context,
	review *Review,
) (rating, count int, err error) {
	err = core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// lock the caterer row so concurrent reviews aggregate serially
		var catererID int64
		lockQuery := `SELECT id FROM caterers WHERE id = $1 FOR UPDATE`
		if lockErr := tx.GetContext(
			ctx, &catererID, lockQuery, review.CatererID,
		); lockErr != nil {
			if errors.Is(lockErr, sql.ErrNoRows) {
				return fmt.Errorf("lock caterer: %w", core.ErrNotFound)
			}
			return fmt.Errorf("lock caterer: %w", lockErr)
		}

		insertQuery := `
			INSERT INTO reviews (user_id, caterer_id, order_id, rating, comment)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`

		insertErr := tx.GetContext(ctx, review, insertQuery,
			review.UserID,
			review.CatererID,
			review.OrderID,
			review.Rating,
			review.Comment,
		)
		if insertErr != nil {
			if isDuplicateKeyError(insertErr) {
				return fmt.Errorf("create review: %w", core.ErrConflict)
			}
			return fmt.Errorf("create review: %w", insertErr)
		}

		var ratings []int
		ratingsQuery := `SELECT rating FROM reviews WHERE caterer_id = $1`
		if selErr := tx.SelectContext(
			ctx, &ratings, ratingsQuery, review.CatererID,
		); selErr != nil {
			return fmt.Errorf("load ratings: %w", selErr)
		}

		rating, count = AggregateRatings(ratings)

		updateQuery := `
			UPDATE caterers
			SET rating = $2, review_count = $3, updated_at = NOW()
			WHERE id = $1`
		if _, updErr := tx.ExecContext(
			ctx, updateQuery, review.CatererID, rating, count,
		); updErr != nil {
			return fmt.Errorf("update caterer rating: %w", updErr)
		}

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return rating, count, nil
}

func (r *repository) ListByCaterer(
	ctx context.Context,
	catererID int64,
) ([]Review, error) {
	query := `
		SELECT id, user_id, caterer_id, order_id, rating, comment, created_at
		FROM reviews
		WHERE caterer_id = $1
		ORDER BY created_at DESC`

	var reviews []Review
	if err := r.db.SelectContext(ctx, &reviews, query, catererID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
