// CaterEase API | 2026
// repository.go

package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caterease/api/internal/core"
)

// ErrMenuInUse is returned when a delete is blocked because orders
// reference the menu. Orders carry a price snapshot but keep the menu
// row for history, so referenced menus cannot be removed.
var ErrMenuInUse = errors.New("menu has existing orders")

type Repository interface {
	Create(ctx context.Context, menu *Menu) error
	GetByID(ctx context.Context, id int64) (*Menu, error)
	Update(ctx context.Context, menu *Menu) error
	Delete(ctx context.Context, id int64) error
	ListByCaterer(ctx context.Context, catererID int64) ([]Menu, error)
	CatererIDForUser(ctx context.Context, userID int64) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const menuColumns = `
	id, caterer_id, name, meal_type, price_per_plate, description, items,
	is_vegetarian, is_special, created_at, updated_at`

func (r *repository) Create(ctx context.Context, menu *Menu) error {
	query := `
		INSERT INTO menus (
			caterer_id, name, meal_type, price_per_plate, description,
			items, is_vegetarian, is_special
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, menu, query,
		menu.CatererID,
		menu.Name,
		menu.MealType,
		menu.PricePerPlate,
		menu.Description,
		menu.Items,
		menu.IsVegetarian,
		menu.IsSpecial,
	)
	if err != nil {
		return fmt.Errorf("create menu: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Menu, error) {
	query := fmt.Sprintf(`SELECT %s FROM menus WHERE id = $1`, menuColumns)

	var menu Menu
	err := r.db.GetContext(ctx, &menu, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get menu: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get menu: %w", err)
	}

	return &menu, nil
}

func (r *repository) Update(ctx context.Context, menu *Menu) error {
	query := `
		UPDATE menus
		SET name = $2, meal_type = $3, price_per_plate = $4, description = $5,
		    items = $6, is_vegetarian = $7, is_special = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &menu.UpdatedAt, query,
		menu.ID,
		menu.Name,
		menu.MealType,
		menu.PricePerPlate,
		menu.Description,
		menu.Items,
		menu.IsVegetarian,
		menu.IsSpecial,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update menu: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update menu: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM menus WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if isForeignKeyError(err) {
		return fmt.Errorf("delete menu: %w", ErrMenuInUse)
	}
	if err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete menu: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByCaterer(
	ctx context.Context,
	catererID int64,
) ([]Menu, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM menus
		WHERE caterer_id = $1
		ORDER BY created_at DESC`, menuColumns)

	var menus []Menu
	if err := r.db.SelectContext(ctx, &menus, query, catererID); err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}

	return menus, nil
}

// CatererIDForUser resolves the caller's caterer profile id for ownership
// checks on menu mutations.
func (r *repository) CatererIDForUser(
	ctx context.Context,
	userID int64,
) (int64, error) {
	query := `SELECT id FROM caterers WHERE user_id = $1`

	var id int64
	err := r.db.GetContext(ctx, &id, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("caterer for user: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("caterer for user: %w", err)
	}

	return id, nil
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
