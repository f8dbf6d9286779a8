package domain

import "time"

type ChangeAction string

const (
	ChangeCreate ChangeAction = "create"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

// Change tells the site build that an item was added, modified or removed by a sync.
// Item is nil for deletes.
type Change struct {
	Action     ChangeAction `json:"action"`
	Collection string       `json:"collection"`
	Slug       string       `json:"slug"`
	Item       *Item        `json:"item,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}
