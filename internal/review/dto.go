// CaterEase API | 2026
// dto.go

package review

import (
	"time"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	CatererID      int64     `json:"caterer_id"`
	OrderID        int64     `json:"order_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CatererRating  int       `json:"caterer_rating"`
	CatererReviews int       `json:"caterer_review_count"`
	CreatedAt      time.Time `json:"created_at"`
}
