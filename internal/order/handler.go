// CaterEase API | 2026
// handler.go

package order

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
	authenticator, catererOnly func(http.Handler) http.Handler,
) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListMine)
		r.Get("/{orderID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(catererOnly)
			r.Put("/{orderID}/status", h.UpdateStatus)
		})
	})
}

// RegisterCatererRoutes mounts the caterer-facing order feed. The router
// is expected to be rooted at /caterers.
func (h *Handler) RegisterCatererRoutes(
	r chi.Router,
	authenticator, catererOnly func(http.Handler) http.Handler,
) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(catererOnly)

		r.Get("/", h.ListForCaterer)
	})
}

// RegisterAdminRoutes mounts the operator order endpoints, including the
// force status update that bypasses the transition table.
func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/orders", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.ListAll)
		r.Put("/{orderID}/status", h.ForceStatus)
	})
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToOrderResponse(order))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orders, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, OrderListResponse{
		Orders: ToEnrichedOrderResponseList(orders),
	})
}

func (h *Handler) ListForCaterer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orders, err := h.service.ListForCaterer(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "caterer profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, OrderListResponse{
		Orders: ToEnrichedOrderResponseList(orders),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetUserRole(r.Context())

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.Get(r.Context(), userID, role, orderID)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	core.OK(w, ToEnrichedOrderResponse(order))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), userID, orderID, req.Status)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	core.OK(w, ToEnrichedOrderResponse(order))
}

func (h *Handler) ForceStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	order, err := h.service.ForceStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	core.OK(w, ToEnrichedOrderResponse(order))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := ListOrdersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Status:   r.URL.Query().Get("status"),
	}

	orders, total, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	params.Normalize()
	core.Paginated(
		w,
		ToEnrichedOrderResponseList(orders),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "order")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "order belongs to another account")
	default:
		core.InternalServerError(w, err)
	}
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "invalid order id")
		return 0, false
	}
	return id, true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
