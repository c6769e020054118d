package repository

import (
	"context"
	"sync"

	"github.com/msgboard/msgboard/backend/go-services/internal/message"
)

// MemoryRepo is an in-memory repository used by unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store []message.Message
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Create(ctx context.Context, msg *message.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stamp(msg)
	m.store = append(m.store, *msg)
	return nil
}

func (m *MemoryRepo) List(ctx context.Context) ([]*message.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*message.Message, 0, len(m.store))
	for i := range m.store {
		msg := m.store[i]
		out = append(out, &msg)
	}
	return out, nil
}
