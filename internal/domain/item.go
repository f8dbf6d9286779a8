package domain

import "time"

const (
	CollectionBlog    = "blog"
	CollectionLessons = "lessons"
)

// Item is a normalized blog post or lesson, keyed by (Collection, Slug).
type Item struct {
	Collection  string     `db:"collection" json:"collection"`
	Slug        string     `db:"slug" json:"slug"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Date        *time.Time `db:"published_on" json:"date,omitempty"`
	Order       int        `db:"sort_order" json:"order"`
	Category    string     `db:"category" json:"category,omitempty"`
	Module      string     `db:"module" json:"module,omitempty"`
	Emoji       string     `db:"emoji" json:"emoji"`
	Cover       string     `db:"cover" json:"cover,omitempty"`
	SourceID    string     `db:"source_id" json:"notionId"`
	Position    int        `db:"position" json:"-"`
}
