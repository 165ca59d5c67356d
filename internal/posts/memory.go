package posts

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used for unit tests and for
// running the service without a MongoDB instance.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Post // keyed by slug
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Post)}
}

func (m *MemoryRepository) Create(ctx context.Context, p *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cp := *p
	m.store[p.Slug] = &cp
	return nil
}

func (m *MemoryRepository) FindBySlug(ctx context.Context, slug string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[slug]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) FindExpired(ctx context.Context, now time.Time) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Post{}
	for _, p := range m.store {
		if p.Expired(now) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var n int64
	for slug, p := range m.store {
		if want[p.ID] {
			delete(m.store, slug)
			n++
		}
	}
	return n, nil
}
