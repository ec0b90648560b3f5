package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"steamsync-api/internal/service"
	"steamsync-api/pkg/apierror"
	"steamsync-api/pkg/response"
)

// AuthHandler handles login and token refresh.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: orDefault(logger)}
}

// LoginResponse is the flat login body. User is absent on a refresh exchange.
type LoginResponse struct {
	Status       string      `json:"status"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	Role         string      `json:"role"`
	User         interface{} `json:"user,omitempty"`
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		if req.RefreshToken == "" && errors.Is(err, service.ErrNotFound) {
			response.Error(w, apierror.NotFound("User not found. Please register first."))
			return
		}
		writeError(w, r, h.logger, err)
		return
	}

	body := LoginResponse{
		Status:       "success",
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		Role:         string(res.Role),
	}
	switch {
	case res.Identity != nil:
		body.User = res.Identity
	case res.Admin != nil:
		body.User = res.Admin
	}

	response.Raw(w, http.StatusOK, body)
}
