package handler

import (
	"log/slog"
	"net/http"

	"steamsync-api/internal/middleware"
	"steamsync-api/internal/service"
	"steamsync-api/pkg/apierror"
	"steamsync-api/pkg/response"
)

// InventoryHandler handles inventory-related HTTP requests.
type InventoryHandler struct {
	inventories *service.InventoryService
	logger      *slog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventories *service.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{inventories: inventories, logger: orDefault(logger)}
}

type syncRequest struct {
	SteamID string `json:"steam_id"`
	AppID   string `json:"app_id"`
}

// SyncResponse reports the outcome of an inventory sync.
type SyncResponse struct {
	SteamID  string      `json:"steam_id"`
	AppID    string      `json:"app_id"`
	Inserted int         `json:"inserted"`
	Items    interface{} `json:"items"`
}

// CreateContainer handles POST /api/v1/inventories
func (h *InventoryHandler) CreateContainer(w http.ResponseWriter, r *http.Request) {
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
	if !middleware.IsOwnerOrAdmin(r.Context(), req.SteamID) {
		response.Error(w, apierror.Forbidden(""))
		return
	}

	inv, err := h.inventories.CreateContainer(r.Context(), req.SteamID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Created(w, inv)
}

// Sync handles POST /api/v1/inventories/sync
func (h *InventoryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	var details []apierror.FieldError
	if req.SteamID == "" {
		details = append(details, apierror.FieldError{Field: "steam_id", Message: "required"})
	}
	if req.AppID == "" {
		details = append(details, apierror.FieldError{Field: "app_id", Message: "required"})
	}
	if len(details) > 0 {
		response.Error(w, apierror.ValidationError("steam_id and app_id are required", details...))
		return
	}
	if !middleware.IsOwnerOrAdmin(r.Context(), req.SteamID) {
		response.Error(w, apierror.Forbidden(""))
		return
	}

	items, err := h.inventories.Sync(r.Context(), req.SteamID, req.AppID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.OK(w, SyncResponse{
		SteamID:  req.SteamID,
		AppID:    req.AppID,
		Inserted: len(items),
		Items:    items,
	})
}
