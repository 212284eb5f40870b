package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidUUID indicates the string is not a valid UUID format
	ErrInvalidUUID = errors.New("invalid UUID format")
	// ErrNotUUIDv7 indicates the UUID is not version 7
	ErrNotUUIDv7 = errors.New("UUID must be version 7")
	// ErrFutureTimestamp indicates a record or UUIDv7 timestamp is too far in the future
	ErrFutureTimestamp = errors.New("timestamp is too far in the future")
)

// MaxFutureSkew is how far ahead of the server clock a client timestamp may be
const MaxFutureSkew = 5 * time.Minute

// ValidateUUIDv7 validates that a string is a valid UUIDv7 whose embedded
// timestamp is not more than MaxFutureSkew after now.
// Returns nil if valid, or ErrInvalidUUID, ErrNotUUIDv7, or ErrFutureTimestamp.
func ValidateUUIDv7(id string, now time.Time) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}

	if parsed.Version() != 7 {
		return fmt.Errorf("%w: got version %d", ErrNotUUIDv7, parsed.Version())
	}

	return checkNotFuture(ExtractUUIDv7Timestamp(id), now)
}

// ExtractUUIDv7Timestamp extracts the embedded timestamp from a UUIDv7.
// Returns zero time if parsing fails.
func ExtractUUIDv7Timestamp(id string) time.Time {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return time.Time{}
	}
	sec, nsec := parsed.Time().UnixTime()
	return time.Unix(sec, nsec)
}

// NewRecordID returns a fresh UUIDv7
func NewRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func checkNotFuture(ts, now time.Time) error {
	maxAllowed := now.Add(MaxFutureSkew)
	if ts.After(maxAllowed) {
		return fmt.Errorf("%w: %v is more than %v ahead",
			ErrFutureTimestamp, ts.UTC().Format(time.RFC3339), MaxFutureSkew)
	}
	return nil
}
