package history

import (
	"context"
	"slices"
	"sync"
)

var _ TransactionLogStore = &MemoryStore{}

// MemoryStore keeps the log in memory.
type MemoryStore struct {
	mu  sync.Mutex
	txs []Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append([]Transaction{tx}, s.txs...)
	return nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.txs), nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = nil
	return nil
}
