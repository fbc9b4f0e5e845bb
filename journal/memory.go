package journal

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is a Repository held in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	trades map[string]Trade
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trades: make(map[string]Trade)}
}

func (m *MemoryStore) Create(ctx context.Context, t Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trades[t.ID]; ok {
		return fmt.Errorf("trade %q: %w", t.ID, ErrTradeExists)
	}
	m.trades[t.ID] = t.Clone()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.trades[id]
	if !ok {
		return Trade{}, fmt.Errorf("trade %q: %w", id, ErrTradeNotFound)
	}
	return t.Clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, t Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trades[t.ID]; !ok {
		return fmt.Errorf("trade %q: %w", t.ID, ErrTradeNotFound)
	}
	m.trades[t.ID] = t.Clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.trades[id]; !ok {
		return fmt.Errorf("trade %q: %w", id, ErrTradeNotFound)
	}
	delete(m.trades, id)
	return nil
}

func (m *MemoryStore) ListByUser(ctx context.Context, userID string) ([]Trade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Trade, 0)
	for _, t := range m.trades {
		if t.UserID == userID {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
