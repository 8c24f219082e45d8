// CaterEase API | 2026
// entity.go

package menu

import (
	"time"

	"github.com/caterease/api/internal/core"
)

type Menu struct {
	ID            int64           `db:"id"`
	CatererID     int64           `db:"caterer_id"`
	Name          string          `db:"name"`
	MealType      string          `db:"meal_type"`
	PricePerPlate int             `db:"price_per_plate"`
	Description   string          `db:"description"`
	Items         core.StringList `db:"items"`
	IsVegetarian  bool            `db:"is_vegetarian"`
	IsSpecial     bool            `db:"is_special"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnacks    = "snacks"
	MealTypeFullDay   = "full_day"
)
