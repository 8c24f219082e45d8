// CaterEase API | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/caterease/api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id int64) (*OrderWithNames, error)
	ListByUser(ctx context.Context, userID int64) ([]OrderWithNames, error)
	ListByCaterer(
		ctx context.Context,
		catererID int64,
	) ([]OrderWithNames, error)
	ListAll(
		ctx context.Context,
		params ListOrdersParams,
	) ([]OrderWithNames, int, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	CatererForOrdering(
		ctx context.Context,
		catererID int64,
	) (*CatererOrderingInfo, error)
	MenuForOrdering(
		ctx context.Context,
		menuID int64,
	) (*MenuOrderingInfo, error)
	CatererIDForUser(ctx context.Context, userID int64) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const enrichedOrderQuery = `
	SELECT o.id, o.user_id, o.caterer_id, o.menu_id, o.event_type,
	       o.no_of_plates, o.total_price, o.event_date, o.event_time,
	       o.address, o.city, o.state, o.special_instructions, o.status,
	       o.created_at, o.updated_at,
	       c.business_name AS caterer_name,
	       m.name AS menu_name,
	       u.name AS customer_name
	FROM orders o
	JOIN caterers c ON c.id = o.caterer_id
	JOIN menus m ON m.id = o.menu_id
	JOIN users u ON u.id = o.user_id`

func (r *repository) Create(ctx context.Context, order *Order) error {
	query := `
		INSERT INTO orders (
			user_id, caterer_id, menu_id, event_type, no_of_plates,
			total_price, event_date, event_time, address, city, state,
			special_instructions, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, order, query,
		order.UserID,
		order.CatererID,
		order.MenuID,
		order.EventType,
		order.NoOfPlates,
		order.TotalPrice,
		order.EventDate,
		order.EventTime,
		order.Address,
		order.City,
		order.State,
		order.SpecialInstructions,
		order.Status,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id int64,
) (*OrderWithNames, error) {
	query := enrichedOrderQuery + ` WHERE o.id = $1`

	var order OrderWithNames
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &order, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]OrderWithNames, error) {
	query := enrichedOrderQuery + `
	WHERE o.user_id = $1
	ORDER BY o.created_at DESC`

	var orders []OrderWithNames
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}

	return orders, nil
}

func (r *repository) ListByCaterer(
	ctx context.Context,
	catererID int64,
) ([]OrderWithNames, error) {
	query := enrichedOrderQuery + `
	WHERE o.caterer_id = $1
	ORDER BY o.created_at DESC`

	var orders []OrderWithNames
	if err := r.db.SelectContext(ctx, &orders, query, catererID); err != nil {
		return nil, fmt.Errorf("list orders by caterer: %w", err)
	}

	return orders, nil
}

func (r *repository) ListAll(
	ctx context.Context,
	params ListOrdersParams,
) ([]OrderWithNames, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM orders o WHERE %s`, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`%s
	WHERE %s
	ORDER BY o.created_at DESC
	LIMIT $%d OFFSET $%d`,
		enrichedOrderQuery, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var orders []OrderWithNames
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id int64,
	status string,
) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CatererForOrdering(
	ctx context.Context,
	catererID int64,
) (*CatererOrderingInfo, error) {
	query := `
		SELECT id, user_id, business_name, min_plate, max_plate
		FROM caterers
		WHERE id = $1`

	var info CatererOrderingInfo
	err := r.db.GetContext(ctx, &info, query, catererID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("caterer for ordering: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("caterer for ordering: %w", err)
	}

	return &info, nil
}

func (r *repository) MenuForOrdering(
	ctx context.Context,
	menuID int64,
) (*MenuOrderingInfo, error) {
	query := `
		SELECT id, caterer_id, name, price_per_plate
		FROM menus
		WHERE id = $1`

	var info MenuOrderingInfo
	err := r.db.GetContext(ctx, &info, query, menuID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu for ordering: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("menu for ordering: %w", err)
	}

	return &info, nil
}

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
