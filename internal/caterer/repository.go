// CaterEase API | 2026
// repository.go

package caterer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caterease/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, caterer *Caterer) error
	GetByID(ctx context.Context, id int64) (*Caterer, error)
	GetByUserID(ctx context.Context, userID int64) (*Caterer, error)
	Update(ctx context.Context, caterer *Caterer) error
	List(ctx context.Context) ([]Caterer, error)
	Search(ctx context.Context, params SearchParams) ([]Caterer, error)
	MenusForCaterer(ctx context.Context, catererID int64) ([]MenuSummary, error)
	ReviewsForCaterer(
		ctx context.Context,
		catererID int64,
	) ([]ReviewSummary, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const catererColumns = `
	id, user_id, business_name, description, location, city, state,
	specialties, event_types, min_plate, max_plate, rating, review_count,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, caterer *Caterer) error {
	query := `
		INSERT INTO caterers (
			user_id, business_name, description, location, city, state,
			specialties, event_types, min_plate, max_plate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, rating, review_count, created_at, updated_at`

	err := r.db.GetContext(ctx, caterer, query,
		caterer.UserID,
		caterer.BusinessName,
		caterer.Description,
		caterer.Location,
		caterer.City,
		caterer.State,
		caterer.Specialties,
		caterer.EventTypes,
		caterer.MinPlate,
		caterer.MaxPlate,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create caterer: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create caterer: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Caterer, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM caterers WHERE id = $1`,
		catererColumns,
	)

	var caterer Caterer
	err := r.db.GetContext(ctx, &caterer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get caterer: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get caterer: %w", err)
	}

	return &caterer, nil
}

func (r *repository) GetByUserID(
	ctx context.Context,
	userID int64,
) (*Caterer, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM caterers WHERE user_id = $1`,
		catererColumns,
	)

	var caterer Caterer
	err := r.db.GetContext(ctx, &caterer, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get caterer by user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get caterer by user: %w", err)
	}

	return &caterer, nil
}

func (r *repository) Update(ctx context.Context, caterer *Caterer) error {
	query := `
		UPDATE caterers
		SET business_name = $2, description = $3, location = $4, city = $5,
		    state = $6, specialties = $7, event_types = $8, min_plate = $9,
		    max_plate = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &caterer.UpdatedAt, query,
		caterer.ID,
		caterer.BusinessName,
		caterer.Description,
		caterer.Location,
		caterer.City,
		caterer.State,
		caterer.Specialties,
		caterer.EventTypes,
		caterer.MinPlate,
		caterer.MaxPlate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update caterer: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update caterer: %w", err)
	}

	return nil
}

func (r *repository) List(ctx context.Context) ([]Caterer, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM caterers ORDER BY rating DESC, review_count DESC`,
		catererColumns,
	)

	var caterers []Caterer
	if err := r.db.SelectContext(ctx, &caterers, query); err != nil {
		return nil, fmt.Errorf("list caterers: %w", err)
	}

	return caterers, nil
}

func (r *repository) Search(
	ctx context.Context,
	params SearchParams,
) ([]Caterer, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Location != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(location ILIKE $%d OR city ILIKE $%d OR state ILIKE $%d)",
			argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Location)+"%")
		argIdx++
	}

	if params.EventType != "" {
		membership, err := json.Marshal([]string{params.EventType})
		if err != nil {
			return nil, fmt.Errorf("search caterers: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf(
			"event_types @> $%d::jsonb", argIdx))
		args = append(args, string(membership))
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM caterers
		WHERE %s
		ORDER BY rating DESC, review_count DESC`,
		catererColumns, whereClause)

	var caterers []Caterer
	if err := r.db.SelectContext(ctx, &caterers, query, args...); err != nil {
		return nil, fmt.Errorf("search caterers: %w", err)
	}

	return caterers, nil
}

func (r *repository) MenusForCaterer(
	ctx context.Context,
	catererID int64,
) ([]MenuSummary, error) {
	query := `
		SELECT id, name, meal_type, price_per_plate, description, items,
		       is_vegetarian, is_special
		FROM menus
		WHERE caterer_id = $1
		ORDER BY created_at DESC`

	var menus []MenuSummary
	if err := r.db.SelectContext(ctx, &menus, query, catererID); err != nil {
		return nil, fmt.Errorf("menus for caterer: %w", err)
	}

	return menus, nil
}

func (r *repository) ReviewsForCaterer(
	ctx context.Context,
	catererID int64,
) ([]ReviewSummary, error) {
	query := `
		SELECT r.id, r.user_id, u.name AS user_name, r.rating, r.comment,
		       r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.caterer_id = $1
		ORDER BY r.created_at DESC`

	var reviews []ReviewSummary
	if err := r.db.SelectContext(ctx, &reviews, query, catererID); err != nil {
		return nil, fmt.Errorf("reviews for caterer: %w", err)
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

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
