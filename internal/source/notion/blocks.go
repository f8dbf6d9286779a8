package notion

import (
	"context"
	"errors"
	"fmt"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

const DefaultMaxDepth = 32

// ErrMaxDepth is returned when a block tree nests deeper than the configured limit.
var ErrMaxDepth = errors.New("notion: block tree exceeds maximum depth")

// ResolveBlocks returns the complete block forest under a page or block.
// Every block flagged with children comes back with Children populated.
func (s *Source) ResolveBlocks(ctx context.Context, containerID string) ([]domain.Block, error) {
	return s.resolve(ctx, containerID, 1)
}

func (s *Source) resolve(ctx context.Context, containerID string, depth int) ([]domain.Block, error) {
	if depth > s.maxDepth {
		return nil, fmt.Errorf("%w (%d) at block %s", ErrMaxDepth, s.maxDepth, containerID)
	}

	blocks, err := s.Children(ctx, containerID)
	if err != nil {
		return nil, err
	}

	for i := range blocks {
		if !blocks[i].HasChildren {
			continue
		}
		children, err := s.resolve(ctx, blocks[i].ID, depth+1)
		if err != nil {
			return nil, err
		}
		if children == nil {
			children = []domain.Block{}
		}
		blocks[i].Children = children
	}

	return blocks, nil
}
