package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Memory keeps blobs in a map. It is safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySink returns an empty Memory sink.
func NewMemorySink() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) WriteAll(ctx context.Context, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return ErrEmptyID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[id] = slices.Clone(data)

	return nil
}

func (m *Memory) ReadAll(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, ErrEmptyID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return slices.Clone(data), nil
}

// Delete removes id. Missing ids are ignored.
func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, id)
}
