package service

import (
	"errors"
	"fmt"

	"steamsync-api/internal/steam"
)

var (
	ErrNotFound              = errors.New("not found")                           // 404
	ErrAlreadyExists         = errors.New("already exists")                      // 409
	ErrInvalidInput          = errors.New("invalid input")                       // 400
	ErrInvalidCredentials    = errors.New("invalid credentials")                 // 401
	ErrSourceProfileNotFound = errors.New("steam profile not found")             // 404
	ErrGameNotFound          = errors.New("game not found on steam")             // 404
	ErrInventoryUnavailable  = errors.New("steam inventory unavailable")         // 404
	ErrContainerMissing      = errors.New("inventory container missing")         // 404
	ErrUpstreamUnreachable   = errors.New("steam is unreachable")                // 502, retryable
	ErrUpstreamMalformed     = errors.New("steam returned a malformed response") // 502
)

// mapUpstream converts steam client errors into service errors.
// The original error stays in the chain so steam.IsRetryable keeps working.
func mapUpstream(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, steam.ErrProfileNotFound):
		return ErrSourceProfileNotFound
	case errors.Is(err, steam.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, steam.ErrInventoryUnavailable):
		return ErrInventoryUnavailable
	case errors.Is(err, steam.ErrMalformedResponse):
		return fmt.Errorf("%w: %w", ErrUpstreamMalformed, err)
	case errors.Is(err, steam.ErrUnreachable):
		return fmt.Errorf("%w: %w", ErrUpstreamUnreachable, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstreamUnreachable, err)
	}
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
