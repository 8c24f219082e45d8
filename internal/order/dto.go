// CaterEase API | 2026
// dto.go

package order

import (
	"time"
)

type PlaceOrderRequest struct {
	CatererID           int64  `json:"caterer_id"           validate:"required,gte=1"`
	MenuID              int64  `json:"menu_id"              validate:"required,gte=1"`
	EventType           string `json:"event_type"           validate:"required,oneof=wedding corporate pooja party other"`
	NoOfPlates          int    `json:"no_of_plates"         validate:"required,gte=1"`
	EventDate           string `json:"event_date"           validate:"required,datetime=2006-01-02"`
	EventTime           string `json:"event_time"           validate:"required,max=30"`
	Address             string `json:"address"              validate:"required,max=255"`
	City                string `json:"city"                 validate:"omitempty,max=100"`
	State               string `json:"state"                validate:"omitempty,max=100"`
	SpecialInstructions string `json:"special_instructions" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready delivered cancelled"`
}

type OrderResponse struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	CatererID           int64     `json:"caterer_id"`
	MenuID              int64     `json:"menu_id"`
	EventType           string    `json:"event_type"`
	NoOfPlates          int       `json:"no_of_plates"`
	TotalPrice          int       `json:"total_price"`
	EventDate           string    `json:"event_date"`
	EventTime           string    `json:"event_time"`
	Address             string    `json:"address"`
	City                string    `json:"city,omitempty"`
	State               string    `json:"state,omitempty"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
	Status              string    `json:"status"`
	CatererName         string    `json:"caterer_name,omitempty"`
	MenuName            string    `json:"menu_name,omitempty"`
	CustomerName        string    `json:"customer_name,omitempty"`
	NextStatuses        []string  `json:"next_statuses,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type ListOrdersParams struct {
	Page     int
	PageSize int
	Status   string
}

func (p *ListOrdersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListOrdersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

const eventDateLayout = "2006-01-02"

func ToOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:                  o.ID,
		UserID:              o.UserID,
		CatererID:           o.CatererID,
		MenuID:              o.MenuID,
		EventType:           o.EventType,
		NoOfPlates:          o.NoOfPlates,
		TotalPrice:          o.TotalPrice,
		EventDate:           o.EventDate.Format(eventDateLayout),
		EventTime:           o.EventTime,
		Address:             o.Address,
		City:                o.City,
		State:               o.State,
		SpecialInstructions: o.SpecialInstructions,
		Status:              o.Status,
		CreatedAt:           o.CreatedAt,
	}
}

func ToEnrichedOrderResponse(o *OrderWithNames) OrderResponse {
	resp := ToOrderResponse(&o.Order)
	resp.CatererName = o.CatererName
	resp.MenuName = o.MenuName
	resp.CustomerName = o.CustomerName
	resp.NextStatuses = NextStatuses(o.Status)
	return resp
}

func ToEnrichedOrderResponseList(orders []OrderWithNames) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToEnrichedOrderResponse(&o))
	}
	return responses
}
