// CaterEase API | 2026
// entity.go

package review

import (
	"time"
)

type Review struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	CatererID int64     `db:"caterer_id"`
	OrderID   int64     `db:"order_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

// OrderForReview is the order slice the preconditions need: who bought
// it, who fulfilled it, and whether it was delivered.
type OrderForReview struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	CatererID int64  `db:"caterer_id"`
	Status    string `db:"status"`
}
