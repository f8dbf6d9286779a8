package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elenayuscula/aprendenotion/internal/cache"
	"github.com/elenayuscula/aprendenotion/internal/domain"
)

func paragraph(id, text string, hasChildren bool) domain.Block {
	payload, _ := json.Marshal(map[string]any{"rich_text": []domain.RichText{{PlainText: text}}})
	return domain.Block{ID: id, Type: "paragraph", HasChildren: hasChildren, Payload: payload}
}

// buildTree registers a tree where every block below the root level has children
// down to the given depth.
func buildTree(api *fakeAPI, parent string, level, depth, fanout int) {
	if level > depth {
		return
	}
	for i := 0; i < fanout; i++ {
		id := fmt.Sprintf("%s.%d", parent, i)
		api.children[parent] = append(api.children[parent], paragraph(id, id, level < depth))
		buildTree(api, id, level+1, depth, fanout)
	}
}

func assertResolved(t *testing.T, blocks []domain.Block, depth int) int {
	t.Helper()
	maxDepth := depth
	for _, b := range blocks {
		if b.HasChildren {
			require.NotNil(t, b.Children, "block %s has children flag but no children", b.ID)
			if d := assertResolved(t, b.Children, depth+1); d > maxDepth {
				maxDepth = d
			}
		} else {
			assert.Nil(t, b.Children)
		}
	}
	return maxDepth
}

func TestResolveBlocks_FullTree(t *testing.T) {
	api := newFakeAPI()
	buildTree(api, "page", 1, 3, 2)

	blocks, err := NewSource(api, testLogger()).ResolveBlocks(context.Background(), "page")
	require.NoError(t, err)

	require.Len(t, blocks, 2)
	assert.Equal(t, 3, assertResolved(t, blocks, 1))
	assert.Equal(t, "page.0", blocks[0].ID)
	assert.Equal(t, "page.0.1", blocks[0].Children[1].ID)
	assert.Equal(t, "page.0.1.0", blocks[0].Children[1].Children[0].PlainText())
}

func TestResolveBlocks_EmptyChildrenListIsNotAbsent(t *testing.T) {
	api := newFakeAPI()
	api.children["page"] = []domain.Block{paragraph("toggle", "x", true)}

	blocks, err := NewSource(api, testLogger()).ResolveBlocks(context.Background(), "page")
	require.NoError(t, err)

	require.Len(t, blocks, 1)
	assert.NotNil(t, blocks[0].Children)
	assert.Empty(t, blocks[0].Children)
}

func TestResolveBlocks_PreservesOrder(t *testing.T) {
	api := newFakeAPI()
	for _, id := range []string{"c", "a", "b"} {
		api.children["page"] = append(api.children["page"], paragraph(id, id, false))
	}

	blocks, err := NewSource(api, testLogger()).ResolveBlocks(context.Background(), "page")
	require.NoError(t, err)

	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestResolveBlocks_MaxDepth(t *testing.T) {
	api := newFakeAPI()
	buildTree(api, "page", 1, 5, 1)

	_, err := NewSource(api, testLogger(), WithMaxDepth(3)).ResolveBlocks(context.Background(), "page")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMaxDepth))
	assert.Contains(t, err.Error(), "page.0.0.0")
}

func TestResolveBlocks_PropagatesError(t *testing.T) {
	api := newFakeAPI()
	api.childrenErr = errors.New("boom")

	_, err := NewSource(api, testLogger()).ResolveBlocks(context.Background(), "page")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestResolveBlocks_CachesEveryContainer(t *testing.T) {
	api := newFakeAPI()
	buildTree(api, "page", 1, 2, 2)
	c := cache.New(t.TempDir(), cache.Options{})
	src := NewSource(api, testLogger(), WithCache(c))

	first, err := src.ResolveBlocks(context.Background(), "page")
	require.NoError(t, err)

	second, err := src.ResolveBlocks(context.Background(), "page")
	require.NoError(t, err)

	for id, n := range api.childCalls {
		assert.Equal(t, 1, n, "container %s fetched once", id)
	}
	assert.Len(t, api.childCalls, 3)
	assert.Equal(t, first[1].Children[0].PlainText(), second[1].Children[0].PlainText())
	assert.Equal(t, first[1].Children[0].ID, second[1].Children[0].ID)

	var raw []domain.Block
	ok, err := c.Get("blocks-page", &raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, raw[0].Children, "cache holds the unresolved listing")
}
