package uid

import "github.com/google/uuid"

// New returns a time-ordered UUIDv7 string for primary keys and request ids.
// Falls back to a random v4 if the clock sequence cannot be read.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
