package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"steamsync-api/internal/service"
	"steamsync-api/internal/token"
	"steamsync-api/pkg/apierror"
	"steamsync-api/pkg/response"
)

const maxBodyBytes = 1 << 20

// toAPIError maps service, token and upstream errors onto HTTP errors.
// Anything unrecognised becomes an opaque 500.
func toAPIError(err error) *apierror.Error {
	var apiErr *apierror.Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, service.ErrInvalidInput):
		return apierror.ValidationError(strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": "))
	case errors.Is(err, service.ErrSourceProfileNotFound):
		return apierror.NotFoundWithCode("SOURCE_NOT_FOUND", "Steam profile not found")
	case errors.Is(err, service.ErrGameNotFound):
		return apierror.NotFoundWithCode("SOURCE_NOT_FOUND", "Game not found on Steam")
	case errors.Is(err, service.ErrInventoryUnavailable):
		return apierror.NotFoundWithCode("INVENTORY_UNAVAILABLE", "Steam inventory is private or empty")
	case errors.Is(err, service.ErrContainerMissing):
		return apierror.NotFoundWithCode("CONTAINER_MISSING", "Inventory has not been created for this user")
	case errors.Is(err, service.ErrNotFound):
		return apierror.NotFound("")
	case errors.Is(err, service.ErrAlreadyExists):
		return apierror.Conflict("Resource already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return apierror.Unauthorized("Invalid username or password")
	case errors.Is(err, token.ErrWrongTokenClass):
		return apierror.Unauthorized("Wrong token type")
	case errors.Is(err, token.ErrExpiredOrMalformed):
		return apierror.Unauthorized("Invalid or expired token")
	case errors.Is(err, service.ErrUpstreamUnreachable):
		return apierror.BadGateway("UPSTREAM_UNREACHABLE", "Steam is unreachable, try again later", true)
	case errors.Is(err, service.ErrUpstreamMalformed):
		return apierror.BadGateway("UPSTREAM_MALFORMED", "Steam returned an unexpected response", false)
	default:
		return apierror.InternalError("")
	}
}

// writeError logs server-side failures and writes the mapped error.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", apiErr.StatusCode, "error", err)
	}
	response.Error(w, apiErr)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierror.BadRequest("request body is required")
		}
		return apierror.BadRequest("invalid request body")
	}
	return nil
}

func orDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
