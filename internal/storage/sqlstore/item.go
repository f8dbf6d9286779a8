package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

const itemColumns = `collection, slug, title, description, published_on, sort_order,
	category, module, emoji, cover, source_id, position`

type ItemStore struct {
	db *sqlx.DB
}

func NewItemStore(db *sqlx.DB) *ItemStore {
	return &ItemStore{db: db}
}

// Put inserts the item, replacing any item already stored under the same slug.
func (s *ItemStore) Put(ctx context.Context, item *domain.Item) error {
	exec := GetExecutor(ctx, s.db)

	query := exec.Rebind(`
		INSERT INTO items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection, slug) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			published_on = EXCLUDED.published_on,
			sort_order = EXCLUDED.sort_order,
			category = EXCLUDED.category,
			module = EXCLUDED.module,
			emoji = EXCLUDED.emoji,
			cover = EXCLUDED.cover,
			source_id = EXCLUDED.source_id,
			position = EXCLUDED.position`)

	_, err := exec.ExecContext(ctx, query,
		item.Collection,
		item.Slug,
		item.Title,
		item.Description,
		item.Date,
		item.Order,
		item.Category,
		item.Module,
		item.Emoji,
		item.Cover,
		item.SourceID,
		item.Position,
	)
	return err
}

// Clear removes every item of the collection.
func (s *ItemStore) Clear(ctx context.Context, collection string) error {
	exec := GetExecutor(ctx, s.db)
	_, err := exec.ExecContext(ctx, exec.Rebind(`DELETE FROM items WHERE collection = ?`), collection)
	return err
}

func (s *ItemStore) Slugs(ctx context.Context, collection string) ([]string, error) {
	exec := GetExecutor(ctx, s.db)

	var slugs []string
	err := sqlx.SelectContext(ctx, exec, &slugs,
		exec.Rebind(`SELECT slug FROM items WHERE collection = ? ORDER BY position, slug`),
		collection,
	)
	return slugs, err
}

// List returns the items of a collection in the order they were synced.
func (s *ItemStore) List(ctx context.Context, collection string) ([]domain.Item, error) {
	exec := GetExecutor(ctx, s.db)

	var items []domain.Item
	err := sqlx.SelectContext(ctx, exec, &items,
		exec.Rebind(`SELECT `+itemColumns+` FROM items WHERE collection = ? ORDER BY position, slug`),
		collection,
	)
	return items, err
}

func (s *ItemStore) Get(ctx context.Context, collection, slug string) (*domain.Item, error) {
	exec := GetExecutor(ctx, s.db)

	var item domain.Item
	err := sqlx.GetContext(ctx, exec, &item,
		exec.Rebind(`SELECT `+itemColumns+` FROM items WHERE collection = ? AND slug = ?`),
		collection, slug,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}
