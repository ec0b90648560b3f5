package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"steamsync-api/internal/service"
	"steamsync-api/internal/steam"
	"steamsync-api/internal/token"
	"steamsync-api/pkg/apierror"
)

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound, "NOT_FOUND", false},
		{"source not found", service.ErrSourceProfileNotFound, http.StatusNotFound, "SOURCE_NOT_FOUND", false},
		{"game not on steam", service.ErrGameNotFound, http.StatusNotFound, "SOURCE_NOT_FOUND", false},
		{"inventory unavailable", service.ErrInventoryUnavailable, http.StatusNotFound, "INVENTORY_UNAVAILABLE", false},
		{"container missing", service.ErrContainerMissing, http.StatusNotFound, "CONTAINER_MISSING", false},
		{"conflict", service.ErrAlreadyExists, http.StatusConflict, "CONFLICT", false},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED", false},
		{"wrong class", token.ErrWrongTokenClass, http.StatusUnauthorized, "UNAUTHORIZED", false},
		{"expired", fmt.Errorf("%w: expired", token.ErrExpiredOrMalformed), http.StatusUnauthorized, "UNAUTHORIZED", false},
		{"unreachable", fmt.Errorf("%w: %w", service.ErrUpstreamUnreachable, steam.ErrUnreachable), http.StatusBadGateway, "UPSTREAM_UNREACHABLE", true},
		{"malformed", fmt.Errorf("%w: %w", service.ErrUpstreamMalformed, steam.ErrMalformedResponse), http.StatusBadGateway, "UPSTREAM_MALFORMED", false},
		{"invalid input", fmt.Errorf("%w: app_id must be numeric", service.ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR", false},
		{"api error passthrough", apierror.Forbidden(""), http.StatusForbidden, "FORBIDDEN", false},
		{"storage failure", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toAPIError(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.retryable, got.Retryable)
		})
	}
}

func TestToAPIError_HidesInternals(t *testing.T) {
	got := toAPIError(errors.New("dial tcp 10.0.0.5:5432: secret detail"))
	assert.NotContains(t, got.Message, "10.0.0.5")

	got = toAPIError(fmt.Errorf("%w: app_id must be numeric", service.ErrInvalidInput))
	assert.Equal(t, "app_id must be numeric", got.Message)
}
