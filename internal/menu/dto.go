// CaterEase API | 2026
// dto.go

package menu

import (
	"time"
)

type CreateMenuRequest struct {
	Name          string   `json:"name"            validate:"required,min=1,max=150"`
	MealType      string   `json:"meal_type"       validate:"required,oneof=breakfast lunch dinner snacks full_day"`
	PricePerPlate int      `json:"price_per_plate" validate:"required,gte=1"`
	Description   string   `json:"description"     validate:"omitempty,max=2000"`
	Items         []string `json:"items"           validate:"required,min=1,dive,min=1,max=150"`
	IsVegetarian  bool     `json:"is_vegetarian"`
	IsSpecial     bool     `json:"is_special"`
}

type UpdateMenuRequest struct {
	Name          *string   `json:"name,omitempty"            validate:"omitempty,min=1,max=150"`
	MealType      *string   `json:"meal_type,omitempty"       validate:"omitempty,oneof=breakfast lunch dinner snacks full_day"`
	PricePerPlate *int      `json:"price_per_plate,omitempty" validate:"omitempty,gte=1"`
	Description   *string   `json:"description,omitempty"     validate:"omitempty,max=2000"`
	Items         *[]string `json:"items,omitempty"           validate:"omitempty,min=1,dive,min=1,max=150"`
	IsVegetarian  *bool     `json:"is_vegetarian,omitempty"`
	IsSpecial     *bool     `json:"is_special,omitempty"`
}

type MenuResponse struct {
	ID            int64     `json:"id"`
	CatererID     int64     `json:"caterer_id"`
	Name          string    `json:"name"`
	MealType      string    `json:"meal_type"`
	PricePerPlate int       `json:"price_per_plate"`
	Description   string    `json:"description,omitempty"`
	Items         []string  `json:"items"`
	IsVegetarian  bool      `json:"is_vegetarian"`
	IsSpecial     bool      `json:"is_special"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type MenuListResponse struct {
	Menus []MenuResponse `json:"menus"`
}

func ToMenuResponse(m *Menu) MenuResponse {
	return MenuResponse{
		ID:            m.ID,
		CatererID:     m.CatererID,
		Name:          m.Name,
		MealType:      m.MealType,
		PricePerPlate: m.PricePerPlate,
		Description:   m.Description,
		Items:         m.Items,
		IsVegetarian:  m.IsVegetarian,
		IsSpecial:     m.IsSpecial,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToMenuResponseList(menus []Menu) []MenuResponse {
	responses := make([]MenuResponse, 0, len(menus))
	for _, m := range menus {
		responses = append(responses, ToMenuResponse(&m))
	}
	return responses
}
