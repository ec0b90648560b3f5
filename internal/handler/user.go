package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"steamsync-api/internal/middleware"
	"steamsync-api/internal/model"
	"steamsync-api/internal/service"
	"steamsync-api/pkg/apierror"
	"steamsync-api/pkg/pagination"
	"steamsync-api/pkg/response"
)

// UserHandler handles identity, binding and item listing requests.
type UserHandler struct {
	identities  *service.IdentityService
	games       *service.GameService
	inventories *service.InventoryService
	planner     pagination.Planner
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(
	identities *service.IdentityService,
	games *service.GameService,
	inventories *service.InventoryService,
	planner pagination.Planner,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		identities:  identities,
		games:       games,
		inventories: inventories,
		planner:     planner,
		logger:      orDefault(logger),
	}
}

type steamIDRequest struct {
	SteamID string `json:"steam_id"`
}

type appIDRequest struct {
	AppID string `json:"app_id"`
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req steamIDRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.SteamID == "" {
		response.Error(w, apierror.ValidationError("steam_id is required",
			apierror.FieldError{Field: "steam_id", Message: "required"}))
		return
	}

	u, err := h.identities.Create(r.Context(), req.SteamID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Created(w, u)
}

// List handles GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	plan := h.planner.ParseQuery(q)

	items, total, err := h.identities.List(r.Context(), plan, q.Get("username"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSONWithMeta(w, http.StatusOK, items, h.planner.Envelope(len(items), total, plan))
}

// Get handles GET /api/v1/users/{steam_id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.identities.Get(r.Context(), chi.URLParam(r, "steam_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.OK(w, u)
}

// Refresh handles PATCH /api/v1/users/{steam_id}
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	steamID := chi.URLParam(r, "steam_id")
	if !middleware.IsOwnerOrAdmin(r.Context(), steamID) {
		response.Error(w, apierror.Forbidden(""))
		return
	}

	u, err := h.identities.Refresh(r.Context(), steamID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.OK(w, u)
}

// Update handles PUT /api/v1/users/{steam_id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.IdentityPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		response.Error(w, err)
		return
	}

	u, err := h.identities.Update(r.Context(), chi.URLParam(r, "steam_id"), patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.OK(w, u)
}

// Delete handles DELETE /api/v1/users/{steam_id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.identities.Delete(r.Context(), chi.URLParam(r, "steam_id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.NoContent(w)
}

// ListGames handles GET /api/v1/users/{steam_id}/games
func (h *UserHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.ListForIdentity(r.Context(), chi.URLParam(r, "steam_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.OK(w, games)
}

// BindGame handles POST /api/v1/users/{steam_id}/games
func (h *UserHandler) BindGame(w http.ResponseWriter, r *http.Request) {
	steamID := chi.URLParam(r, "steam_id")
	if !middleware.IsOwnerOrAdmin(r.Context(), steamID) {
		response.Error(w, apierror.Forbidden(""))
		return
	}

	var req appIDRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.AppID == "" {
		response.Error(w, apierror.ValidationError("app_id is required",
			apierror.FieldError{Field: "app_id", Message: "required"}))
		return
	}

	b, err := h.games.Bind(r.Context(), steamID, req.AppID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Created(w, b)
}

// ListInventory handles GET /api/v1/users/{steam_id}/inventory
func (h *UserHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventories.ListItems(r.Context(), chi.URLParam(r, "steam_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.OK(w, items)
}
