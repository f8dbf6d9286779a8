package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

// CollectionSync replaces the stored items of one collection with the records
// currently published in its data source.
type CollectionSync struct {
	collection Collection
	source     RecordSource
	items      ItemStore
	syncState  SyncStateStore
	txManager  TransactionManager
	publisher  Publisher
	media      MediaMirror
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*CollectionSync)

// WithPublisher notifies the site build of every change.
func WithPublisher(p Publisher) Option {
	return func(s *CollectionSync) { s.publisher = p }
}

// WithMediaMirror mirrors cover images into the public asset directory.
func WithMediaMirror(m MediaMirror) Option {
	return func(s *CollectionSync) { s.media = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *CollectionSync) { s.now = now }
}

func NewCollectionSync(
	collection Collection,
	source RecordSource,
	items ItemStore,
	syncState SyncStateStore,
	txManager TransactionManager,
	logger *slog.Logger,
	opts ...Option,
) *CollectionSync {
	s := &CollectionSync{
		collection: collection,
		source:     source,
		items:      items,
		syncState:  syncState,
		txManager:  txManager,
		logger:     logger.With("collection", collection.Name),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CollectionSync) Name() string {
	return s.collection.Name
}

// Sync fetches and normalizes every published record before touching the
// store, so a failed fetch leaves the previous items in place.
func (s *CollectionSync) Sync(ctx context.Context) (*domain.SyncStats, error) {
	startTime := s.now()
	s.logger.Info("starting sync", "data_source", s.collection.Query.DataSourceID)

	records, err := s.source.QueryAll(ctx, s.collection.Query)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	s.logger.Info("fetched records from source", "count", len(records))

	items, err := s.normalize(ctx, records, startTime)
	if err != nil {
		return nil, err
	}

	previous, err := s.items.List(ctx, s.collection.Name)
	if err != nil {
		return nil, fmt.Errorf("list stored items: %w", err)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.items.Clear(txCtx, s.collection.Name); err != nil {
			return fmt.Errorf("clear items: %w", err)
		}
		for i := range items {
			if err := s.items.Put(txCtx, &items[i]); err != nil {
				return fmt.Errorf("put item %s: %w", items[i].Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replace items: %w", err)
	}

	changes := diff(s.collection.Name, previous, items)

	stats := &domain.SyncStats{
		Collection: s.collection.Name,
		Fetched:    len(records),
		Stored:     len(dedupe(items)),
	}

	for i := range changes {
		switch changes[i].Action {
		case domain.ChangeCreate:
			stats.New++
		case domain.ChangeUpdate:
			stats.Updated++
		case domain.ChangeDelete:
			stats.Removed++
		}

		if s.publisher != nil {
			changes[i].Timestamp = s.now().UTC()
			if err := s.publisher.Publish(ctx, changes[i]); err != nil {
				s.logger.Warn("failed to publish change", "slug", changes[i].Slug, "error", err)
				stats.Errors++
			} else {
				stats.Published++
			}
		}
	}

	if err := s.updateSyncState(ctx, stats); err != nil {
		return stats, fmt.Errorf("update sync state: %w", err)
	}

	stats.Duration = s.now().Sub(startTime)

	s.logger.Info("sync completed",
		"stored", stats.Stored,
		"new", stats.New,
		"updated", stats.Updated,
		"removed", stats.Removed,
		"errors", stats.Errors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *CollectionSync) normalize(ctx context.Context, records []domain.Record, now time.Time) ([]domain.Item, error) {
	items := make([]domain.Item, 0, len(records))
	for i, r := range records {
		item := s.collection.Map(r, now)
		item.Collection = s.collection.Name
		item.Position = i

		if s.media != nil && item.Cover != "" {
			local, err := s.media.Fetch(ctx, item.Cover, s.collection.Name+"-"+item.Slug)
			if err != nil {
				return nil, fmt.Errorf("mirror cover of %s: %w", item.Slug, err)
			}
			item.Cover = local
		}

		items = append(items, item)
	}
	return items, nil
}

func (s *CollectionSync) updateSyncState(ctx context.Context, stats *domain.SyncStats) error {
	state, err := s.syncState.Get(ctx, s.collection.Name)
	if err != nil {
		return err
	}

	state.Collection = s.collection.Name
	state.LastSyncedAt = s.now().UTC()
	state.ItemCount = int64(stats.Stored)
	state.TotalSynced += int64(stats.New + stats.Updated)

	return s.syncState.Update(ctx, state)
}

// dedupe keeps the last item per slug, in the position of that last item.
func dedupe(items []domain.Item) []domain.Item {
	last := make(map[string]int, len(items))
	for i, it := range items {
		last[it.Slug] = i
	}
	out := make([]domain.Item, 0, len(last))
	for i, it := range items {
		if last[it.Slug] == i {
			out = append(out, it)
		}
	}
	return out
}

func diff(collection string, previous, current []domain.Item) []domain.Change {
	before := make(map[string]domain.Item, len(previous))
	for _, it := range previous {
		before[it.Slug] = it
	}

	var changes []domain.Change
	seen := make(map[string]bool)
	for _, it := range dedupe(current) {
		seen[it.Slug] = true
		old, existed := before[it.Slug]
		switch {
		case !existed:
			changes = append(changes, domain.Change{Action: domain.ChangeCreate, Collection: collection, Slug: it.Slug, Item: ptr(it)})
		case !sameItem(old, it):
			changes = append(changes, domain.Change{Action: domain.ChangeUpdate, Collection: collection, Slug: it.Slug, Item: ptr(it)})
		}
	}
	for _, it := range previous {
		if !seen[it.Slug] {
			changes = append(changes, domain.Change{Action: domain.ChangeDelete, Collection: collection, Slug: it.Slug})
		}
	}
	return changes
}

func sameItem(a, b domain.Item) bool {
	switch {
	case a.Date == nil && b.Date == nil:
	case a.Date == nil || b.Date == nil:
		return false
	case !a.Date.Equal(*b.Date):
		return false
	}
	a.Date, b.Date = nil, nil
	return a == b
}

func ptr[T any](v T) *T { return &v }
