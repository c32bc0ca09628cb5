package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/provimatch/backend/internal/domain"
)

// MemoryRepository is a thread-safe in-memory catalog. List methods return
// copies sorted by id so callers get stable, mutation-safe snapshots.
type MemoryRepository struct {
	mutex sync.RWMutex
	items map[string]domain.CatalogItem
}

// NewMemoryRepository creates an empty in-memory catalog
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]domain.CatalogItem)}
}

// Upsert inserts or replaces an item. An empty id gets one assigned,
// and the item is returned as stored.
func (r *MemoryRepository) Upsert(ctx context.Context, item domain.CatalogItem) (domain.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.CatalogItem{}, err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.items[item.ID] = item
	return item, nil
}

// Get returns the item with the given id, or ErrItemNotFound.
func (r *MemoryRepository) Get(ctx context.Context, id string) (*domain.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

// ListActive returns a snapshot of all items with Active=true.
func (r *MemoryRepository) ListActive(ctx context.Context) ([]domain.CatalogItem, error) {
	return r.list(ctx, true)
}

// List returns a snapshot of every item, active or not.
func (r *MemoryRepository) List(ctx context.Context) ([]domain.CatalogItem, error) {
	return r.list(ctx, false)
}

func (r *MemoryRepository) list(ctx context.Context, activeOnly bool) ([]domain.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]domain.CatalogItem, 0, len(r.items))
	for _, item := range r.items {
		if activeOnly && !item.Active {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Size returns the current number of items (for debugging/monitoring)
func (r *MemoryRepository) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.items)
}
