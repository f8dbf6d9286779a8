package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

// ContentService serves synced items and page bodies to the site build.
type ContentService struct {
	blocks BlockSource
	items  ItemReader
	logger *slog.Logger
}

func NewContentService(blocks BlockSource, items ItemReader, logger *slog.Logger) *ContentService {
	return &ContentService{
		blocks: blocks,
		items:  items,
		logger: logger,
	}
}

// PageBlocks returns the full block tree of a page.
func (s *ContentService) PageBlocks(ctx context.Context, pageID string) ([]domain.Block, error) {
	blocks, err := s.blocks.ResolveBlocks(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("resolve blocks of %s: %w", pageID, err)
	}
	s.logger.Debug("resolved page blocks", "page_id", pageID, "top_level", len(blocks))
	return blocks, nil
}

func (s *ContentService) Items(ctx context.Context, collection string) ([]domain.Item, error) {
	items, err := s.items.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s items: %w", collection, err)
	}
	return items, nil
}

// Item returns one item with its page body.
func (s *ContentService) Item(ctx context.Context, collection, slug string) (*domain.Item, []domain.Block, error) {
	item, err := s.items.Get(ctx, collection, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("get %s/%s: %w", collection, slug, err)
	}
	blocks, err := s.PageBlocks(ctx, item.SourceID)
	if err != nil {
		return nil, nil, err
	}
	return item, blocks, nil
}
