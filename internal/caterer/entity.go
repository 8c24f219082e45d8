// CaterEase API | 2026
// entity.go

package caterer

import (
	"time"

	"github.com/caterease/api/internal/core"
)

type Caterer struct {
	ID           int64           `db:"id"`
	UserID       int64           `db:"user_id"`
	BusinessName string          `db:"business_name"`
	Description  string          `db:"description"`
	Location     string          `db:"location"`
	City         string          `db:"city"`
	State        string          `db:"state"`
	Specialties  core.StringList `db:"specialties"`
	EventTypes   core.StringList `db:"event_types"`
	MinPlate     int             `db:"min_plate"`
	MaxPlate     int             `db:"max_plate"`
	Rating       int             `db:"rating"`
	ReviewCount  int             `db:"review_count"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// ServesEventType reports whether the caterer lists the given event type.
func (c *Caterer) ServesEventType(eventType string) bool {
	return c.EventTypes.Contains(eventType)
}

// MenuSummary is the menu slice shown on a caterer detail page, read from
// the menus table by this package's repository.
type MenuSummary struct {
	ID            int64           `db:"id"            json:"id"`
	Name          string          `db:"name"          json:"name"`
	MealType      string          `db:"meal_type"     json:"meal_type"`
	PricePerPlate int             `db:"price_per_plate" json:"price_per_plate"`
	Description   string          `db:"description"   json:"description,omitempty"`
	Items         core.StringList `db:"items"         json:"items"`
	IsVegetarian  bool            `db:"is_vegetarian" json:"is_vegetarian"`
	IsSpecial     bool            `db:"is_special"    json:"is_special"`
}

// ReviewSummary is the review slice shown on a caterer detail page.
type ReviewSummary struct {
	ID        int64     `db:"id"         json:"id"`
	UserID    int64     `db:"user_id"    json:"user_id"`
	UserName  string    `db:"user_name"  json:"user_name"`
	Rating    int       `db:"rating"     json:"rating"`
	Comment   string    `db:"comment"    json:"comment,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
