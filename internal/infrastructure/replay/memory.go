// Package replay holds NonceStore implementations that reject a payer+nonce pair
// seen before its authorization expired.
package replay

import (
	"context"
	"sync"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/domain"
)

// MemoryNonceStore is a process local store. Entries live until PurgeExpired drops them.
type MemoryNonceStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryNonceStore() *MemoryNonceStore {
	return &MemoryNonceStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryNonceStore) Reserve(_ context.Context, payer, nonce string, expiresAt time.Time) error {
	key := nonceKey(payer, nonce)

	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.entries[key]; ok && !held.Before(s.now()) {
		return domain.ErrNonceReused
	}
	s.entries[key] = expiresAt
	return nil
}

func (s *MemoryNonceStore) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for key, expiresAt := range s.entries {
		if expiresAt.Before(cutoff) {
			delete(s.entries, key)
			purged++
		}
	}
	return purged, nil
}

// Len is the number of held entries, expired or not.
func (s *MemoryNonceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func nonceKey(payer, nonce string) string {
	return payer + ":" + nonce
}
