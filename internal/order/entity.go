// CaterEase API | 2026
// entity.go

package order

import (
	"time"
)

// Order rows are immutable after creation except for status. Orders are
// never deleted.
type Order struct {
	ID                  int64     `db:"id"`
	UserID              int64     `db:"user_id"`
	CatererID           int64     `db:"caterer_id"`
	MenuID              int64     `db:"menu_id"`
	EventType           string    `db:"event_type"`
	NoOfPlates          int       `db:"no_of_plates"`
	TotalPrice          int       `db:"total_price"`
	EventDate           time.Time `db:"event_date"`
	EventTime           string    `db:"event_time"`
	Address             string    `db:"address"`
	City                string    `db:"city"`
	State               string    `db:"state"`
	SpecialInstructions string    `db:"special_instructions"`
	Status              string    `db:"status"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// OrderWithNames enriches an order with display names joined from the
// caterers, menus and users tables.
type OrderWithNames struct {
	Order

	CatererName  string `db:"caterer_name"`
	MenuName     string `db:"menu_name"`
	CustomerName string `db:"customer_name"`
}

// CatererOrderingInfo is the caterer slice needed to place an order.
type CatererOrderingInfo struct {
	ID           int64  `db:"id"`
	UserID       int64  `db:"user_id"`
	BusinessName string `db:"business_name"`
	MinPlate     int    `db:"min_plate"`
	MaxPlate     int    `db:"max_plate"`
}

// MenuOrderingInfo is the menu slice needed to place an order.
type MenuOrderingInfo struct {
	ID            int64  `db:"id"`
	CatererID     int64  `db:"caterer_id"`
	Name          string `db:"name"`
	PricePerPlate int    `db:"price_per_plate"`
}

const (
	EventTypeWedding   = "wedding"
	EventTypeCorporate = "corporate"
	EventTypePooja     = "pooja"
	EventTypeParty     = "party"
	EventTypeOther     = "other"
)
