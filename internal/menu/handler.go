// CaterEase API | 2026
// handler.go

package menu

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

// RegisterRoutes mounts menu management on the /caterers subtree; every
// route requires the caterer role and operates on the caller's own profile.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, catererOnly func(http.Handler) http.Handler,
) {
	r.Route("/menus", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(catererOnly)

		r.Get("/", h.ListOwn)
		r.Post("/", h.Create)
		r.Put("/{menuID}", h.Update)
		r.Delete("/{menuID}", h.Delete)
	})
}

func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	menus, err := h.service.ListOwn(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "caterer profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, MenuListResponse{Menus: ToMenuResponseList(menus)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	menu, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "caterer profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToMenuResponse(menu))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	menuID, ok := parseMenuID(w, r)
	if !ok {
		return
	}

	var req UpdateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	menu, err := h.service.Update(r.Context(), userID, menuID, req)
	if err != nil {
		h.writeMenuError(w, err)
		return
	}

	core.OK(w, ToMenuResponse(menu))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	menuID, ok := parseMenuID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, menuID); err != nil {
		h.writeMenuError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeMenuError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "menu")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "menu belongs to another caterer")
	case errors.Is(err, ErrMenuInUse):
		core.JSONError(w, core.NewAppError(
			core.ErrConflict,
			"menu has existing orders and cannot be deleted",
			http.StatusConflict,
			"MENU_IN_USE",
		))
	default:
		core.InternalServerError(w, err)
	}
}

func parseMenuID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "menuID"), 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "invalid menu id")
		return 0, false
	}
	return id, true
}
