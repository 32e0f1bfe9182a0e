package obs

import "github.com/google/uuid"

// NewCorrelationID mints a random UUID string for use as a correlation id.
// The logger does not stamp it into records by itself: a record carries a
// correlation id only where the caller writes one into the message (the
// executor mints its invocation ids with uuid directly, and the host shell
// logs that id on a non-zero exit).
func NewCorrelationID() string {
	return uuid.NewString()
}
