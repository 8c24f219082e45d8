// CaterEase API | 2026
// service.go

package review

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

// AddReview records a review for a delivered order the caller purchased,
// and returns the review with the caterer's refreshed rating summary.
func (s *Service) AddReview(
	ctx context.Context,
	userID, orderID int64,
	req CreateReviewRequest,
) (*ReviewResponse, error) {
	order, err := s.repo.GetOrderForReview(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, fmt.Errorf(
			"review: not the purchaser: %w",
			core.ErrForbidden,
		)
	}

	if order.Status != "delivered" {
		return nil, core.ValidationError(
			"only delivered orders can be reviewed",
		)
	}

	exists, err := s.repo.ExistsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf(
			"review: order already reviewed: %w",
			core.ErrConflict,
		)
	}

	review := &Review{
		UserID:    userID,
		CatererID: order.CatererID,
		OrderID:   orderID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	// the unique order_id constraint closes the check-then-insert race
	rating, count, err := s.repo.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	return &ReviewResponse{
		ID:             review.ID,
		UserID:         review.UserID,
		CatererID:      review.CatererID,
		OrderID:        review.OrderID,
		Rating:         review.Rating,
		Comment:        review.Comment,
		CatererRating:  rating,
		CatererReviews: count,
		CreatedAt:      review.CreatedAt,
	}, nil
}

func (s *Service) ListByCaterer(
	ctx context.Context,
	catererID int64,
) ([]Review, error) {
	return s.repo.ListByCaterer(ctx, catererID)
}
