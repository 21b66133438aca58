package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdempotencyStore remembers the outcome of client-keyed requests so a
// retried submission returns the original result instead of applying
// its side effects a second time.
type IdempotencyStore interface {
	// Remember associates a request key with the entity it produced.
	// Returns false if the key was already recorded, in which case the
	// stored value is left untouched.
	Remember(ctx context.Context, key string, entityID uuid.UUID, ttl time.Duration) (bool, error)

	// Lookup returns the entity recorded for a request key, or
	// (uuid.Nil, false) if the key is unknown or expired.
	Lookup(ctx context.Context, key string) (uuid.UUID, bool, error)

	// Close releases store resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a request key remains recognizable.
	// Default: 24 hours
	TTL time.Duration

	// Enabled determines whether request keys are honored
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
