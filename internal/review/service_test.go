// CaterEase API | 2026
// service_test.go

package review

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caterease/api/internal/core"
)

type fakeRepository struct {
	orders  map[int64]*OrderForReview
	reviews map[int64]*Review
	nextID  int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		orders:  map[int64]*OrderForReview{},
		reviews: map[int64]*Review{},
		nextID:  1,
	}
}

func (f *fakeRepository) GetOrderForReview(
	_ context.Context,
	orderID int64,
) (*OrderForReview, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("get order for review: %w", core.ErrNotFound)
	}
	return order, nil
}

func (f *fakeRepository) ExistsByOrderID(
	_ context.Context,
	orderID int64,
) (bool, error) {
	for _, review := range f.reviews {
		if review.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) Create(
	_ context.Context,
	review *Review,
) (int, int, error) {
	for _, existing := range f.reviews {
		if existing.OrderID == review.OrderID {
			return 0, 0, fmt.Errorf("create review: %w", core.ErrConflict)
		}
	}

	review.ID = f.nextID
	f.nextID++
	review.CreatedAt = time.Now()
	f.reviews[review.ID] = review

	var ratings []int
	for _, r := range f.reviews {
		if r.CatererID == review.CatererID {
			ratings = append(ratings, r.Rating)
		}
	}
	rating, count := AggregateRatings(ratings)
	return rating, count, nil
}

func (f *fakeRepository) ListByCaterer(
	_ context.Context,
	catererID int64,
) ([]Review, error) {
	var out []Review
	for _, review := range f.reviews {
		if review.CatererID == catererID {
			out = append(out, *review)
		}
	}
	return out, nil
}

func TestAddReview(t *testing.T) {
	ctx := context.Background()

	deliveredOrder := func(repo *fakeRepository, orderID int64) {
		repo.orders[orderID] = &OrderForReview{
			ID:        orderID,
			UserID:    1,
			CatererID: 10,
			Status:    "delivered",
		}
	}

	t.Run("records review and refreshed summary", func(t *testing.T) {
		repo := newFakeRepository()
		deliveredOrder(repo, 100)
		svc := NewService(repo)

		resp, err := svc.AddReview(ctx, 1, 100, CreateReviewRequest{
			Rating:  5,
			Comment: "the biryani was outstanding",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(10), resp.CatererID)
		assert.Equal(t, int64(100), resp.OrderID)
		assert.Equal(t, 5, resp.Rating)
		assert.Equal(t, 5, resp.CatererRating)
		assert.Equal(t, 1, resp.CatererReviews)
	})

	t.Run("summary aggregates across orders", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo)

		ratings := []int{5, 3, 4}
		for i, rating := range ratings {
			orderID := int64(100 + i)
			deliveredOrder(repo, orderID)

			resp, err := svc.AddReview(ctx, 1, orderID, CreateReviewRequest{
				Rating: rating,
			})
			require.NoError(t, err)

			if i == len(ratings)-1 {
				assert.Equal(t, 4, resp.CatererRating)
				assert.Equal(t, 3, resp.CatererReviews)
			}
		}
	})

	t.Run("missing order", func(t *testing.T) {
		svc := NewService(newFakeRepository())

		_, err := svc.AddReview(ctx, 1, 404, CreateReviewRequest{Rating: 4})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("only the purchaser may review", func(t *testing.T) {
		repo := newFakeRepository()
		deliveredOrder(repo, 100)
		svc := NewService(repo)

		_, err := svc.AddReview(ctx, 2, 100, CreateReviewRequest{Rating: 4})
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("only delivered orders may be reviewed", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo)

		for _, status := range []string{
			"pending",
			"confirmed",
			"preparing",
			"ready",
			"cancelled",
		} {
			repo.orders[100] = &OrderForReview{
				ID:        100,
				UserID:    1,
				CatererID: 10,
				Status:    status,
			}

			_, err := svc.AddReview(ctx, 1, 100, CreateReviewRequest{Rating: 4})
			require.Error(t, err, status)
			assert.ErrorIs(t, err, core.ErrInvalidInput, status)
		}
	})

	t.Run("one review per order", func(t *testing.T) {
		repo := newFakeRepository()
		deliveredOrder(repo, 100)
		svc := NewService(repo)

		_, err := svc.AddReview(ctx, 1, 100, CreateReviewRequest{Rating: 4})
		require.NoError(t, err)

		_, err = svc.AddReview(ctx, 1, 100, CreateReviewRequest{Rating: 5})
		assert.ErrorIs(t, err, core.ErrConflict)
	})
}
