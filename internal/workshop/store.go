package workshop

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Store persists orders. IDs are assigned by the store, start at 1 and restart
// at 1 after Reset.
type Store interface {
	Add(ctx context.Context, o Order) (Order, error)
	List(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, o Order) error
	Reset(ctx context.Context) error
	Close() error
}

// OpenStore returns the store named by driver.
func OpenStore(driver, path string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// MemoryStore keeps orders in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[int]Order
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[int]Order), nextID: 1}
}

func (s *MemoryStore) Add(_ context.Context, o Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.nextID
	s.nextID++
	s.orders[o.ID] = cloneOrder(o)
	return o, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; !ok {
		return ErrNotFound
	}
	s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make(map[int]Order)
	s.nextID = 1
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneOrder(o Order) Order {
	if o.WorkerID != nil {
		w := *o.WorkerID
		o.WorkerID = &w
	}
	return o
}
