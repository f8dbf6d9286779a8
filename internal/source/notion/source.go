package notion

import (
	"context"
	"log/slog"
)

const DefaultPageSize = 100

// API is the pair of paginated primitives the Notion adapter exposes.
type API interface {
	QueryDataSource(ctx context.Context, sourceID string, q QueryRequest) (*QueryResponse, error)
	ListBlockChildren(ctx context.Context, blockID, cursor string, pageSize int) (*BlockChildrenResponse, error)
}

// Cache stores complete result sets by key.
type Cache interface {
	Get(key string, dst any) (bool, error)
	Set(key string, v any) error
}

// Source materializes complete result sets from the paginated API, reading
// and writing through a cache when one is configured.
type Source struct {
	api      API
	cache    Cache
	pageSize int
	maxDepth int
	logger   *slog.Logger
}

type Option func(*Source)

func WithCache(c Cache) Option {
	return func(s *Source) { s.cache = c }
}

func WithPageSize(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithMaxDepth bounds block tree recursion.
func WithMaxDepth(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

func NewSource(api API, logger *slog.Logger, opts ...Option) *Source {
	s := &Source{
		api:      api,
		pageSize: DefaultPageSize,
		maxDepth: DefaultMaxDepth,
		logger:   logger.With("component", "notion_source"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
