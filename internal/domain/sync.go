package domain

import "time"

// SyncStats holds statistics about a sync operation.
type SyncStats struct {
	Collection string
	Fetched    int
	Stored     int
	New        int
	Updated    int
	Removed    int
	Errors     int
	Published  int
	Duration   time.Duration
}

// SyncState is the persisted outcome of the last successful sync of a collection.
type SyncState struct {
	Collection   string    `db:"collection"`
	LastSyncedAt time.Time `db:"last_synced_at"`
	ItemCount    int64     `db:"item_count"`
	TotalSynced  int64     `db:"total_synced"`
}
