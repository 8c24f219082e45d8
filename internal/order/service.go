// CaterEase API | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caterease/api/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// PlaceOrder validates the caterer/menu cross-reference and plate bounds,
// snapshots the price and creates a pending order.
func (s *Service) PlaceOrder(
	ctx context.Context,
	userID int64,
	req PlaceOrderRequest,
) (*Order, error) {
	caterer, err := s.repo.CatererForOrdering(ctx, req.CatererID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("caterer")
		}
		return nil, err
	}

	menu, err := s.repo.MenuForOrdering(ctx, req.MenuID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("menu")
		}
		return nil, err
	}

	if menu.CatererID != caterer.ID {
		return nil, core.ValidationError(
			"menu does not belong to this caterer",
		)
	}

	if req.NoOfPlates < caterer.MinPlate || req.NoOfPlates > caterer.MaxPlate {
		return nil, core.ValidationError(fmt.Sprintf(
			"Order must be between %d and %d plates",
			caterer.MinPlate,
			caterer.MaxPlate,
		))
	}

	eventDate, err := time.Parse(eventDateLayout, req.EventDate)
	if err != nil {
		return nil, core.ValidationError("event_date must be YYYY-MM-DD")
	}

	order := &Order{
		UserID:              userID,
		CatererID:           caterer.ID,
		MenuID:              menu.ID,
		EventType:           req.EventType,
		NoOfPlates:          req.NoOfPlates,
		TotalPrice:          req.NoOfPlates * menu.PricePerPlate,
		EventDate:           eventDate,
		EventTime:           req.EventTime,
		Address:             req.Address,
		City:                req.City,
		State:               req.State,
		SpecialInstructions: req.SpecialInstructions,
		Status:              StatusPending,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID int64,
) ([]OrderWithNames, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListForCaterer returns the orders placed against the caller's caterer
// profile.
func (s *Service) ListForCaterer(
	ctx context.Context,
	userID int64,
) ([]OrderWithNames, error) {
	catererID, err := s.repo.CatererIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListByCaterer(ctx, catererID)
}

// Get returns the order when the caller is its purchaser, the fulfilling
// caterer, or an admin.
func (s *Service) Get(
	ctx context.Context,
	userID int64,
	role string,
	orderID int64,
) (*OrderWithNames, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if role == "admin" || order.UserID == userID {
		return order, nil
	}

	catererID, err := s.repo.CatererIDForUser(ctx, userID)
	if err == nil && catererID == order.CatererID {
		return order, nil
	}

	return nil, fmt.Errorf("order access: %w", core.ErrForbidden)
}

// UpdateStatus moves an order along the fulfilment state machine. Only
// the caterer the order was placed with may call this, and the new status
// must be reachable from the current one.
func (s *Service) UpdateStatus(
	ctx context.Context,
	userID, orderID int64,
	newStatus string,
) (*OrderWithNames, error) {
	if !IsValidStatus(newStatus) {
		return nil, core.ValidationError("unknown order status")
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	catererID, err := s.repo.CatererIDForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("update status: %w", core.ErrForbidden)
		}
		return nil, err
	}

	if order.CatererID != catererID {
		return nil, fmt.Errorf("update status: %w", core.ErrForbidden)
	}

	if !CanTransition(order.Status, newStatus) {
		return nil, core.NewAppError(
			core.ErrConflict,
			fmt.Sprintf(
				"cannot move order from %s to %s",
				order.Status,
				newStatus,
			),
			409,
			"INVALID_TRANSITION",
		)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, err
	}

	order.Status = newStatus
	return order, nil
}

// ForceStatus sets any known status without consulting the transition
// table. Admin only; wired behind the admin route group.
func (s *Service) ForceStatus(
	ctx context.Context,
	orderID int64,
	status string,
) (*OrderWithNames, error) {
	if !IsValidStatus(status) {
		return nil, core.ValidationError("unknown order status")
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	order.Status = status
	return order, nil
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListOrdersParams,
) ([]OrderWithNames, int, error) {
	if params.Status != "" && !IsValidStatus(params.Status) {
		return nil, 0, core.ValidationError("unknown order status")
	}

	return s.repo.ListAll(ctx, params)
}
