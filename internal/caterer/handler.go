// CaterEase API | 2026
// handler.go

package caterer

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

// RegisterRoutes mounts the public browse endpoints and the caterer-only
// profile endpoint. The router is expected to already be rooted at
// /caterers, which the menu and order packages share.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, catererOnly func(http.Handler) http.Handler,
) {
	r.Get("/", h.List)
	r.Get("/search", h.Search)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(catererOnly)
		r.Put("/profile", h.UpdateProfile)
	})

	r.Get("/{catererID}", h.GetDetail)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caterers, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CatererListResponse{
		Caterers: ToCatererResponseList(caterers),
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params := SearchParams{
		Location:  r.URL.Query().Get("location"),
		EventType: r.URL.Query().Get("event_type"),
	}

	caterers, err := h.service.Search(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CatererListResponse{
		Caterers: ToCatererResponseList(caterers),
	})
}

func (h *Handler) GetDetail(w http.ResponseWriter, r *http.Request) {
	catererID, err := strconv.ParseInt(chi.URLParam(r, "catererID"), 10, 64)
	if err != nil || catererID < 1 {
		core.BadRequest(w, "invalid caterer id")
		return
	}

	detail, err := h.service.GetDetail(r.Context(), catererID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "caterer")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, detail)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	caterer, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "caterer profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCatererResponse(caterer))
}
