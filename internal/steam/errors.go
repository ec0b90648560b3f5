package steam

import "errors"

var (
	// ErrUnreachable covers transport errors, timeouts and unexpected statuses.
	// It is the only retryable failure.
	ErrUnreachable = errors.New("steam: upstream unreachable")
	// ErrProfileNotFound means Steam answered but reported zero matching players.
	ErrProfileNotFound = errors.New("steam: profile not found")
	// ErrGameNotFound means the store does not know the app id or reported failure.
	ErrGameNotFound = errors.New("steam: game not found")
	// ErrInventoryUnavailable means the inventory is private, empty or otherwise refused.
	ErrInventoryUnavailable = errors.New("steam: inventory unavailable")
	// ErrMalformedResponse means the payload could not be normalized.
	ErrMalformedResponse = errors.New("steam: malformed response")
)

// IsRetryable reports whether retrying the same call later may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
