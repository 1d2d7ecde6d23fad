package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so redelivered events can be
// skipped. Entries expire after their TTL.
type IdempotencyStore interface {
	// MarkProcessed records the event ID. It returns true when the ID was
	// newly recorded and false when a previous delivery already claimed it.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID has been recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Unmark releases an event ID so a later redelivery is processed again.
	// Called when handling fails after the mark, so the outbox retry of the
	// same event is not swallowed as a duplicate.
	Unmark(ctx context.Context, eventID string) error

	Close() error
}

// IdempotencyConfig controls duplicate-delivery suppression
type IdempotencyConfig struct {
	// TTL bounds how long a processed event ID is remembered. A redelivery
	// after expiry is processed again, so it should comfortably exceed the
	// outbox retry horizon.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
