package service

import (
	"time"

	"github.com/elenayuscula/aprendenotion/internal/config"
	"github.com/elenayuscula/aprendenotion/internal/domain"
	"github.com/elenayuscula/aprendenotion/internal/property"
)

// Collection describes one synced content shape: where its records come from
// and how a record becomes an item.
type Collection struct {
	Name  string
	Query domain.Query
	Map   func(r domain.Record, now time.Time) domain.Item
}

const (
	DefaultCategory    = "Tutorial"
	DefaultModule      = "Fundamentos"
	DefaultPostEmoji   = "📝"
	DefaultLessonEmoji = "📚"
	DefaultTitle       = "Sin título"
)

var (
	slugProps        = []string{"Slug"}
	titleProps       = []string{"Name", "Título"}
	descriptionProps = []string{"Description", "Descripción"}
	emojiProps       = []string{"Emoji"}
	dateProps        = []string{"Date", "Fecha"}
	categoryProps    = []string{"Category", "Categoría"}
	orderProps       = []string{"Order", "Orden"}
	moduleProps      = []string{"Module", "Módulo"}
)

func publishedFilter(cfg config.CollectionConfig) *domain.Filter {
	return &domain.Filter{
		Property: cfg.StatusProperty,
		Type:     domain.PropertyType(cfg.StatusType),
		Equals:   cfg.PublishedValue,
	}
}

// BlogCollection returns published posts, newest first.
func BlogCollection(cfg config.CollectionConfig) Collection {
	return Collection{
		Name: domain.CollectionBlog,
		Query: domain.Query{
			DataSourceID: cfg.DataSourceID,
			Filter:       publishedFilter(cfg),
			Sorts:        []domain.Sort{{Property: cfg.SortProperty, Direction: domain.Descending}},
		},
		Map: MapPost,
	}
}

// LessonsCollection returns published lessons in course order.
func LessonsCollection(cfg config.CollectionConfig) Collection {
	return Collection{
		Name: domain.CollectionLessons,
		Query: domain.Query{
			DataSourceID: cfg.DataSourceID,
			Filter:       publishedFilter(cfg),
			Sorts:        []domain.Sort{{Property: cfg.SortProperty, Direction: domain.Ascending}},
		},
		Map: MapLesson,
	}
}

func MapPost(r domain.Record, now time.Time) domain.Item {
	date, ok := property.Date(r, dateProps...)
	if !ok {
		date = today(now)
	}
	date = date.UTC()

	return domain.Item{
		Collection:  domain.CollectionBlog,
		Slug:        property.Slug(r, slugProps, titleProps),
		Title:       firstNonEmpty(property.Text(r, titleProps...), DefaultTitle),
		Description: property.Text(r, descriptionProps...),
		Date:        &date,
		Category:    firstNonEmpty(property.Select(r, categoryProps...), DefaultCategory),
		Emoji:       firstNonEmpty(property.Emoji(r), property.Text(r, emojiProps...), DefaultPostEmoji),
		Cover:       property.Cover(r),
		SourceID:    r.ID,
	}
}

func MapLesson(r domain.Record, _ time.Time) domain.Item {
	return domain.Item{
		Collection:  domain.CollectionLessons,
		Slug:        property.Slug(r, slugProps, titleProps),
		Title:       firstNonEmpty(property.Text(r, titleProps...), DefaultTitle),
		Description: property.Text(r, descriptionProps...),
		Order:       int(property.Number(r, orderProps...)),
		Module:      firstNonEmpty(property.Select(r, moduleProps...), DefaultModule),
		Emoji:       firstNonEmpty(property.Emoji(r), property.Text(r, emojiProps...), DefaultLessonEmoji),
		Cover:       property.Cover(r),
		SourceID:    r.ID,
	}
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
