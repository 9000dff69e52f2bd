package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/domain"
)

type nonceRepository struct {
	db *DB
}

func NewNonceRepository(db *DB) domain.NonceStore {
	return &nonceRepository{db: db}
}

// Reserve relies on the (payer, nonce) primary key. Expired rows are left to
// PurgeExpired; an authorization past validBefore never reaches Reserve.
func (r *nonceRepository) Reserve(ctx context.Context, payer, nonce string, expiresAt time.Time) error {
	query := `
		INSERT INTO consumed_nonces (payer, nonce, expires_at, consumed_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Pool.Exec(ctx, query, payer, nonce, expiresAt.UTC(), time.Now().UTC())
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.ErrNonceReused
		}
		return fmt.Errorf("failed to reserve nonce: %w", err)
	}

	return nil
}

func (r *nonceRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM consumed_nonces WHERE expires_at < $1`

	tag, err := r.db.Pool.Exec(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired nonces: %w", err)
	}

	return tag.RowsAffected(), nil
}
