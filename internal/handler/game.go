package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"steamsync-api/internal/service"
	"steamsync-api/pkg/apierror"
	"steamsync-api/pkg/response"
)

// GameHandler handles mirrored store app requests.
type GameHandler struct {
	games  *service.GameService
	logger *slog.Logger
}

// NewGameHandler creates a new game handler.
func NewGameHandler(games *service.GameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{games: games, logger: orDefault(logger)}
}

// Ensure handles POST /api/v1/games
func (h *GameHandler) Ensure(w http.ResponseWriter, r *http.Request) {
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

	g, err := h.games.Ensure(r.Context(), req.AppID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.OK(w, g)
}

// Get handles GET /api/v1/games/{app_id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.Get(r.Context(), chi.URLParam(r, "app_id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.OK(w, g)
}
