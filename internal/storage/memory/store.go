// Package memory is an in-process item store, used when the site build reads
// items directly from the syncer process and in tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

// ErrNotFound is returned when a requested item does not exist.
var ErrNotFound = errors.New("memory: not found")

// Store keeps items per collection and sync state per collection.
type Store struct {
	mu     sync.RWMutex
	items  map[string]map[string]domain.Item
	states map[string]domain.SyncState
}

func New() *Store {
	return &Store{
		items:  make(map[string]map[string]domain.Item),
		states: make(map[string]domain.SyncState),
	}
}

func (s *Store) Put(ctx context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(ctx, item.Collection)
	c, ok := s.items[item.Collection]
	if !ok {
		c = make(map[string]domain.Item)
		s.items[item.Collection] = c
	}
	c[item.Slug] = *item
	return nil
}

func (s *Store) Clear(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(ctx, collection)
	delete(s.items, collection)
	return nil
}

func (s *Store) Slugs(ctx context.Context, collection string) ([]string, error) {
	items, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, len(items))
	for i, it := range items {
		slugs[i] = it.Slug
	}
	return slugs, nil
}

// List returns the items of a collection in the order they were synced.
func (s *Store) List(_ context.Context, collection string) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Item, 0, len(s.items[collection]))
	for _, it := range s.items[collection] {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].Slug < items[j].Slug
	})
	return items, nil
}

func (s *Store) Get(_ context.Context, collection, slug string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[collection][slug]
	if !ok {
		return nil, ErrNotFound
	}
	return &it, nil
}

type ctxKey struct{}

// undoLog records the contents a transaction found in each collection it touched.
type undoLog struct {
	saved map[string]map[string]domain.Item
}

// touch must be called with s.mu held.
func (s *Store) touch(ctx context.Context, collection string) {
	log, ok := ctx.Value(ctxKey{}).(*undoLog)
	if !ok {
		return
	}
	if _, seen := log.saved[collection]; seen {
		return
	}
	cp := make(map[string]domain.Item, len(s.items[collection]))
	for slug, it := range s.items[collection] {
		cp[slug] = it
	}
	log.saved[collection] = cp
}

// WithTransaction runs fn and restores every collection fn modified if it fails.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	log := &undoLog{saved: make(map[string]map[string]domain.Item)}
	if err := fn(context.WithValue(ctx, ctxKey{}, log)); err != nil {
		s.mu.Lock()
		for name, items := range log.saved {
			s.items[name] = items
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// SyncStates returns a view of the store satisfying the sync state contract.
func (s *Store) SyncStates() *SyncStateStore {
	return &SyncStateStore{s: s}
}

type SyncStateStore struct {
	s *Store
}

func (st *SyncStateStore) Get(_ context.Context, collection string) (*domain.SyncState, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	state, ok := st.s.states[collection]
	if !ok {
		return &domain.SyncState{Collection: collection}, nil
	}
	return &state, nil
}

func (st *SyncStateStore) Update(_ context.Context, state *domain.SyncState) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	st.s.states[state.Collection] = *state
	return nil
}
