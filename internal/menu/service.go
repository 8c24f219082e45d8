// CaterEase API | 2026
// service.go

package menu

import (
	"context"
	"fmt"

	"github.com/caterease/api/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	userID int64,
	req CreateMenuRequest,
) (*Menu, error) {
	catererID, err := s.repo.CatererIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	menu := &Menu{
		CatererID:     catererID,
		Name:          req.Name,
		MealType:      req.MealType,
		PricePerPlate: req.PricePerPlate,
		Description:   req.Description,
		Items:         req.Items,
		IsVegetarian:  req.IsVegetarian,
		IsSpecial:     req.IsSpecial,
	}

	if err := s.repo.Create(ctx, menu); err != nil {
		return nil, err
	}

	return menu, nil
}

func (s *Service) Update(
	ctx context.Context,
	userID, menuID int64,
	req UpdateMenuRequest,
) (*Menu, error) {
	menu, err := s.ownedMenu(ctx, userID, menuID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.MealType != nil {
		menu.MealType = *req.MealType
	}
	if req.PricePerPlate != nil {
		menu.PricePerPlate = *req.PricePerPlate
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.Items != nil {
		menu.Items = *req.Items
	}
	if req.IsVegetarian != nil {
		menu.IsVegetarian = *req.IsVegetarian
	}
	if req.IsSpecial != nil {
		menu.IsSpecial = *req.IsSpecial
	}

	if err := s.repo.Update(ctx, menu); err != nil {
		return nil, err
	}

	return menu, nil
}

func (s *Service) Delete(ctx context.Context, userID, menuID int64) error {
	menu, err := s.ownedMenu(ctx, userID, menuID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, menu.ID)
}

func (s *Service) ListOwn(ctx context.Context, userID int64) ([]Menu, error) {
	catererID, err := s.repo.CatererIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListByCaterer(ctx, catererID)
}

// ownedMenu loads the menu and rejects the call unless it belongs to the
// caller's caterer profile.
func (s *Service) ownedMenu(
	ctx context.Context,
	userID, menuID int64,
) (*Menu, error) {
	catererID, err := s.repo.CatererIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	menu, err := s.repo.GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}

	if menu.CatererID != catererID {
		return nil, fmt.Errorf("menu ownership: %w", core.ErrForbidden)
	}

	return menu, nil
}
