// Package revocations remembers access tokens that were logged out before
// they expired.
package revocations

import (
	"context"
	"time"
)

type Repository interface {
	// Revoke marks the token id as unusable until its natural expiry.
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
