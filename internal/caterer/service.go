// CaterEase API | 2026
// service.go

package caterer

import (
	"context"
	"fmt"

	"github.com/caterease/api/internal/auth"
	"github.com/caterease/api/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateProfile creates the caterer record behind register-caterer.
func (s *Service) CreateProfile(
	ctx context.Context,
	params auth.CreateCatererParams,
) (*auth.CatererInfo, error) {
	caterer := &Caterer{
		UserID:       params.UserID,
		BusinessName: params.BusinessName,
		Description:  params.Description,
		Location:     params.Location,
		City:         params.City,
		State:        params.State,
		Specialties:  params.Specialties,
		EventTypes:   params.EventTypes,
		MinPlate:     params.MinPlate,
		MaxPlate:     params.MaxPlate,
	}

	if err := s.repo.Create(ctx, caterer); err != nil {
		return nil, err
	}

	return toCatererInfo(caterer), nil
}

func (s *Service) GetByUserID(
	ctx context.Context,
	userID int64,
) (*auth.CatererInfo, error) {
	caterer, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toCatererInfo(caterer), nil
}

func (s *Service) List(ctx context.Context) ([]Caterer, error) {
	return s.repo.List(ctx)
}

func (s *Service) Search(
	ctx context.Context,
	params SearchParams,
) ([]Caterer, error) {
	return s.repo.Search(ctx, params)
}

// GetDetail returns the caterer with its menus and reviews. Reads only,
// so repeated calls observe identical state absent writes.
func (s *Service) GetDetail(
	ctx context.Context,
	id int64,
) (*CatererDetailResponse, error) {
	caterer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	menus, err := s.repo.MenusForCaterer(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.ReviewsForCaterer(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &CatererDetailResponse{
		CatererResponse: ToCatererResponse(caterer),
		Menus:           menus,
		Reviews:         reviews,
	}

	if detail.Menus == nil {
		detail.Menus = []MenuSummary{}
	}
	if detail.Reviews == nil {
		detail.Reviews = []ReviewSummary{}
	}

	return detail, nil
}

// UpdateProfile applies partial updates to the caller's own profile.
// Plate bounds are not cross-checked against each other here; orders
// validate against whatever bounds are stored.
func (s *Service) UpdateProfile(
	ctx context.Context,
	userID int64,
	req UpdateProfileRequest,
) (*Caterer, error) {
	if userID == 0 {
		return nil, fmt.Errorf("update profile: %w", core.ErrUnauthorized)
	}

	caterer, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.BusinessName != nil {
		caterer.BusinessName = *req.BusinessName
	}
	if req.Description != nil {
		caterer.Description = *req.Description
	}
	if req.Location != nil {
		caterer.Location = *req.Location
	}
	if req.City != nil {
		caterer.City = *req.City
	}
	if req.State != nil {
		caterer.State = *req.State
	}
	if req.Specialties != nil {
		caterer.Specialties = *req.Specialties
	}
	if req.EventTypes != nil {
		caterer.EventTypes = *req.EventTypes
	}
	if req.MinPlate != nil {
		caterer.MinPlate = *req.MinPlate
	}
	if req.MaxPlate != nil {
		caterer.MaxPlate = *req.MaxPlate
	}

	if err := s.repo.Update(ctx, caterer); err != nil {
		return nil, err
	}

	return caterer, nil
}

func toCatererInfo(c *Caterer) *auth.CatererInfo {
	return &auth.CatererInfo{
		ID:           c.ID,
		UserID:       c.UserID,
		BusinessName: c.BusinessName,
		Description:  c.Description,
		Location:     c.Location,
		City:         c.City,
		State:        c.State,
		Specialties:  c.Specialties,
		EventTypes:   c.EventTypes,
		MinPlate:     c.MinPlate,
		MaxPlate:     c.MaxPlate,
		Rating:       c.Rating,
		ReviewCount:  c.ReviewCount,
	}
}

var _ auth.CatererProvider = (*Service)(nil)
