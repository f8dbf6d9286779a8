package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

type SyncStateStore struct {
	db *sqlx.DB
}

func NewSyncStateStore(db *sqlx.DB) *SyncStateStore {
	return &SyncStateStore{db: db}
}

func (s *SyncStateStore) Get(ctx context.Context, collection string) (*domain.SyncState, error) {
	var state domain.SyncState
	query := s.db.Rebind(`
		SELECT collection, last_synced_at, item_count, total_synced
		FROM sync_state
		WHERE collection = ?`)

	err := s.db.GetContext(ctx, &state, query, collection)
	if errors.Is(err, sql.ErrNoRows) {
		// Return empty state for collections never synced
		return &domain.SyncState{Collection: collection}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *SyncStateStore) Update(ctx context.Context, state *domain.SyncState) error {
	query := s.db.Rebind(`
		INSERT INTO sync_state (collection, last_synced_at, item_count, total_synced)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (collection) DO UPDATE SET
			last_synced_at = EXCLUDED.last_synced_at,
			item_count = EXCLUDED.item_count,
			total_synced = EXCLUDED.total_synced`)

	_, err := s.db.ExecContext(ctx, query,
		state.Collection,
		state.LastSyncedAt,
		state.ItemCount,
		state.TotalSynced,
	)
	return err
}
