// CaterEase API | 2026
// handler.go

package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/caterease/api/internal/core"
	"github.com/caterease/api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/orders/{orderID}/reviews", h.AddReview)
	})
}

func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID < 1 {
		core.BadRequest(w, "invalid order id")
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.AddReview(r.Context(), userID, orderID, req)
	if err != nil {
		switch {
		case core.IsAppError(err):
			core.JSONError(w, err)
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "order")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "only the purchaser can review an order")
		case errors.Is(err, core.ErrConflict):
			core.Conflict(w, "order has already been reviewed")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, resp)
}
