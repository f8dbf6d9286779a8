package notion

import (
	"context"
	"fmt"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

func queryKey(sourceID string) string { return "db-" + sourceID }

func blocksKey(blockID string) string { return "blocks-" + blockID }

// QueryAll returns every record of the data source matching the query, in the
// order the API returns them.
func (s *Source) QueryAll(ctx context.Context, q domain.Query) ([]domain.Record, error) {
	if q.DataSourceID == "" {
		return nil, ErrMissingDataSource
	}

	key := queryKey(q.DataSourceID)
	if records, ok, err := cached[[]domain.Record](s.cache, key); err != nil || ok {
		if ok {
			s.logger.Debug("cache hit", "key", key, "records", len(records))
		}
		return records, err
	}

	filter, err := filterJSON(q.Filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	req := QueryRequest{
		Filter:   filter,
		Sorts:    sortSpecs(q.Sorts),
		PageSize: s.pageSize,
	}

	records := []domain.Record{}
	for page := 0; ; page++ {
		resp, err := s.api.QueryDataSource(ctx, q.DataSourceID, req)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}

		records = append(records, resp.Results...)

		s.logger.Debug("fetched page",
			"data_source", q.DataSourceID,
			"page", page,
			"records", len(resp.Results),
			"total", len(records),
		)

		req.StartCursor = cursorValue(resp.NextCursor)
		if !resp.HasMore || req.StartCursor == "" {
			break
		}
	}

	if err := store(s.cache, key, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Children returns every direct child of a block or page, unresolved.
func (s *Source) Children(ctx context.Context, blockID string) ([]domain.Block, error) {
	key := blocksKey(blockID)
	if blocks, ok, err := cached[[]domain.Block](s.cache, key); err != nil || ok {
		return blocks, err
	}

	blocks := []domain.Block{}
	cursor := ""
	for page := 0; ; page++ {
		resp, err := s.api.ListBlockChildren(ctx, blockID, cursor, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch children page %d: %w", page, err)
		}

		blocks = append(blocks, resp.Results...)

		cursor = cursorValue(resp.NextCursor)
		if !resp.HasMore || cursor == "" {
			break
		}
	}

	if err := store(s.cache, key, blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func cached[T any](c Cache, key string) (T, bool, error) {
	var v T
	if c == nil {
		return v, false, nil
	}
	ok, err := c.Get(key, &v)
	if err != nil {
		return v, false, fmt.Errorf("read cache: %w", err)
	}
	return v, ok, nil
}

func store(c Cache, key string, v any) error {
	if c == nil {
		return nil
	}
	if err := c.Set(key, v); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}
