package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

type RecordSource interface {
	QueryAll(ctx context.Context, q domain.Query) ([]domain.Record, error)
}

type BlockSource interface {
	ResolveBlocks(ctx context.Context, containerID string) ([]domain.Block, error)
}

type ItemStore interface {
	List(ctx context.Context, collection string) ([]domain.Item, error)
	Clear(ctx context.Context, collection string) error
	Put(ctx context.Context, item *domain.Item) error
}

type ItemReader interface {
	List(ctx context.Context, collection string) ([]domain.Item, error)
	Get(ctx context.Context, collection, slug string) (*domain.Item, error)
}

type SyncStateStore interface {
	Get(ctx context.Context, collection string) (*domain.SyncState, error)
	Update(ctx context.Context, state *domain.SyncState) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, change domain.Change) error
	Close() error
}

type MediaMirror interface {
	Fetch(ctx context.Context, sourceURL, name string) (string, error)
}
