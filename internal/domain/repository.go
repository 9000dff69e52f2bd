package domain

import (
	"context"
	"time"
)

// NonceStore records consumed authorizations so the same signed transfer cannot pay twice.
type NonceStore interface {
	// Reserve marks payer+nonce as consumed until expiresAt.
	// It returns ErrNonceReused if the pair is already held.
	Reserve(ctx context.Context, payer, nonce string, expiresAt time.Time) error

	// PurgeExpired drops entries whose authorization expired before the cutoff.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
