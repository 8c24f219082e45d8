// CaterEase API | 2026
// dto.go

package caterer

import (
	"time"
)

type UpdateProfileRequest struct {
	BusinessName *string   `json:"business_name,omitempty" validate:"omitempty,min=1,max=150"`
	Description  *string   `json:"description,omitempty"   validate:"omitempty,max=2000"`
	Location     *string   `json:"location,omitempty"      validate:"omitempty,min=1,max=255"`
	City         *string   `json:"city,omitempty"          validate:"omitempty,max=100"`
	State        *string   `json:"state,omitempty"         validate:"omitempty,max=100"`
	Specialties  *[]string `json:"specialties,omitempty"   validate:"omitempty,dive,min=1,max=100"`
	EventTypes   *[]string `json:"event_types,omitempty"   validate:"omitempty,dive,oneof=wedding corporate pooja party other"`
	MinPlate     *int      `json:"min_plate,omitempty"     validate:"omitempty,gte=1"`
	MaxPlate     *int      `json:"max_plate,omitempty"     validate:"omitempty,gte=1"`
}

type SearchParams struct {
	Location  string
	EventType string
}

type CatererResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	BusinessName string    `json:"business_name"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	Specialties  []string  `json:"specialties"`
	EventTypes   []string  `json:"event_types"`
	MinPlate     int       `json:"min_plate"`
	MaxPlate     int       `json:"max_plate"`
	Rating       int       `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type CatererDetailResponse struct {
	CatererResponse

	Menus   []MenuSummary   `json:"menus"`
	Reviews []ReviewSummary `json:"reviews"`
}

type CatererListResponse struct {
	Caterers []CatererResponse `json:"caterers"`
}

func ToCatererResponse(c *Caterer) CatererResponse {
	return CatererResponse{
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
		CreatedAt:    c.CreatedAt,
	}
}

func ToCatererResponseList(caterers []Caterer) []CatererResponse {
	responses := make([]CatererResponse, 0, len(caterers))
	for _, c := range caterers {
		responses = append(responses, ToCatererResponse(&c))
	}
	return responses
}
