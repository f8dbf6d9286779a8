package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

type SQLiteSuite struct {
	suite.Suite
	ctx context.Context
	db  *sqlx.DB
}

func (s *SQLiteSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := Open(DriverSQLite, filepath.Join(s.T().TempDir(), "data", "content.db"))
	s.Require().NoError(err)
	s.db = db
}

func (s *SQLiteSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestSQLiteSuite(t *testing.T) {
	suite.Run(t, new(SQLiteSuite))
}

func (s *SQLiteSuite) TestItemStore_PutAndGet() {
	store := NewItemStore(s.db)
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	item := &domain.Item{
		Collection:  "blog",
		Slug:        "como-usar-notion",
		Title:       "¿Cómo usar Notion?",
		Description: "Una guía",
		Date:        &date,
		Category:    "Tutorial",
		Emoji:       "📝",
		Cover:       "/images/notion/blog-como-usar-notion.png",
		SourceID:    "page-1",
	}
	s.NoError(store.Put(s.ctx, item))

	got, err := store.Get(s.ctx, "blog", "como-usar-notion")
	s.Require().NoError(err)
	s.Equal(item.Title, got.Title)
	s.Equal(item.Description, got.Description)
	s.Equal("Tutorial", got.Category)
	s.Equal("📝", got.Emoji)
	s.Equal(item.Cover, got.Cover)
	s.Require().NotNil(got.Date)
	s.True(date.Equal(*got.Date))
}

func (s *SQLiteSuite) TestItemStore_NullDate() {
	store := NewItemStore(s.db)

	s.NoError(store.Put(s.ctx, &domain.Item{Collection: "lessons", Slug: "intro", Title: "Intro", Order: 2, Module: "Fundamentos", SourceID: "p"}))

	got, err := store.Get(s.ctx, "lessons", "intro")
	s.Require().NoError(err)
	s.Nil(got.Date)
	s.Equal(2, got.Order)
	s.Equal("Fundamentos", got.Module)
}

func (s *SQLiteSuite) TestItemStore_GetMissing() {
	_, err := NewItemStore(s.db).Get(s.ctx, "blog", "nope")
	s.True(errors.Is(err, ErrNotFound))
}

func (s *SQLiteSuite) TestItemStore_PutOverwritesSameSlug() {
	store := NewItemStore(s.db)

	s.NoError(store.Put(s.ctx, &domain.Item{Collection: "blog", Slug: "dup", Title: "First", SourceID: "p1", Position: 0}))
	s.NoError(store.Put(s.ctx, &domain.Item{Collection: "blog", Slug: "dup", Title: "Second", SourceID: "p2", Position: 1}))

	items, err := store.List(s.ctx, "blog")
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Second", items[0].Title)
	s.Equal("p2", items[0].SourceID)
}

func (s *SQLiteSuite) TestItemStore_ClearScopedToCollection() {
	store := NewItemStore(s.db)
	s.NoError(store.Put(s.ctx, &domain.Item{Collection: "blog", Slug: "a", Title: "A", SourceID: "1"}))
	s.NoError(store.Put(s.ctx, &domain.Item{Collection: "lessons", Slug: "a", Title: "A", SourceID: "2"}))

	s.NoError(store.Clear(s.ctx, "blog"))

	blog, err := store.Slugs(s.ctx, "blog")
	s.NoError(err)
	s.Empty(blog)

	lessons, err := store.Slugs(s.ctx, "lessons")
	s.NoError(err)
	s.Equal([]string{"a"}, lessons)
}

func (s *SQLiteSuite) TestItemStore_ListInPositionOrder() {
	store := NewItemStore(s.db)
	for i, slug := range []string{"zeta", "alpha", "mid"} {
		s.NoError(store.Put(s.ctx, &domain.Item{Collection: "blog", Slug: slug, Title: slug, SourceID: slug, Position: i}))
	}

	slugs, err := store.Slugs(s.ctx, "blog")
	s.NoError(err)
	s.Equal([]string{"zeta", "alpha", "mid"}, slugs)
}

func (s *SQLiteSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	store := NewItemStore(s.db)
	s.NoError(store.Put(s.ctx, &domain.Item{Collection: "blog", Slug: "keep", Title: "Keep", SourceID: "1"}))

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := store.Clear(ctx, "blog"); err != nil {
			return err
		}
		if err := store.Put(ctx, &domain.Item{Collection: "blog", Slug: "new", Title: "New", SourceID: "2"}); err != nil {
			return err
		}
		return context.Canceled
	})
	s.Error(err)

	slugs, err := store.Slugs(s.ctx, "blog")
	s.NoError(err)
	s.Equal([]string{"keep"}, slugs)
}

func (s *SQLiteSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	store := NewItemStore(s.db)
	s.NoError(store.Put(s.ctx, &domain.Item{Collection: "blog", Slug: "old", Title: "Old", SourceID: "1"}))

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := store.Clear(ctx, "blog"); err != nil {
			return err
		}
		return store.Put(ctx, &domain.Item{Collection: "blog", Slug: "new", Title: "New", SourceID: "2"})
	})
	s.NoError(err)

	slugs, err := store.Slugs(s.ctx, "blog")
	s.NoError(err)
	s.Equal([]string{"new"}, slugs)
}

func (s *SQLiteSuite) TestSyncStateStore_GetNew() {
	state, err := NewSyncStateStore(s.db).Get(s.ctx, "lessons")
	s.NoError(err)
	s.Equal("lessons", state.Collection)
	s.True(state.LastSyncedAt.IsZero())
	s.Equal(int64(0), state.TotalSynced)
}

func (s *SQLiteSuite) TestSyncStateStore_UpdateExisting() {
	store := NewSyncStateStore(s.db)
	now := time.Now().UTC().Truncate(time.Second)

	s.NoError(store.Update(s.ctx, &domain.SyncState{Collection: "blog", LastSyncedAt: now, ItemCount: 3, TotalSynced: 3}))
	s.NoError(store.Update(s.ctx, &domain.SyncState{Collection: "blog", LastSyncedAt: now, ItemCount: 4, TotalSynced: 7}))

	state, err := store.Get(s.ctx, "blog")
	s.NoError(err)
	s.Equal(int64(4), state.ItemCount)
	s.Equal(int64(7), state.TotalSynced)
	s.WithinDuration(now, state.LastSyncedAt, time.Second)
}

func (s *SQLiteSuite) TestOpen_UnsupportedDriver() {
	_, err := Open("mysql", "x")
	s.Error(err)
}
