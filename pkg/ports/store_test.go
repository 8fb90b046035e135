package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// MockStore is a minimal map-backed RunStore used to exercise the contract itself.
type MockStore struct {
	data map[string]domain.Run
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]domain.Run)}
}

func (m *MockStore) Save(ctx context.Context, run *domain.Run) error {
	m.data[run.ID] = *run
	return nil
}

func (m *MockStore) Load(ctx context.Context, id string) (*domain.Run, error) {
	run, ok := m.data[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return &run, nil
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	delete(m.data, id)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestRunStore_Contract(t *testing.T) {
	ports.RunRunStoreContract(t, NewMockStore())
}
