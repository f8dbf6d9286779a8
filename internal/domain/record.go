package domain

import "time"

// PropertyType is the type tag Notion attaches to every page property.
type PropertyType string

const (
	PropertyTitle       PropertyType = "title"
	PropertyRichText    PropertyType = "rich_text"
	PropertySelect      PropertyType = "select"
	PropertyStatus      PropertyType = "status"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertyDate        PropertyType = "date"
	PropertyNumber      PropertyType = "number"
	PropertyCheckbox    PropertyType = "checkbox"
	PropertyURL         PropertyType = "url"
)

// Record is one page returned by a data source query.
type Record struct {
	ID             string              `json:"id"`
	URL            string              `json:"url,omitempty"`
	CreatedTime    time.Time           `json:"created_time"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	Properties     map[string]Property `json:"properties"`
	Cover          *File               `json:"cover,omitempty"`
	Icon           *Icon               `json:"icon,omitempty"`
}

// Property is a tagged variant: Type says which of the value fields is meaningful.
type Property struct {
	ID          string         `json:"id,omitempty"`
	Type        PropertyType   `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	Status      *SelectOption  `json:"status,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Checkbox    bool           `json:"checkbox,omitempty"`
	URL         *string        `json:"url,omitempty"`
}

type RichText struct {
	Type      string `json:"type,omitempty"`
	PlainText string `json:"plain_text"`
	Href      string `json:"href,omitempty"`
}

type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// File is an externally hosted or uploaded file (cover images).
type File struct {
	Type     string    `json:"type"` // "external" or "file"
	External *FileLink `json:"external,omitempty"`
	File     *FileLink `json:"file,omitempty"`
}

type FileLink struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

// Icon is a page icon: an emoji literal or a file.
type Icon struct {
	Type     string    `json:"type"` // "emoji", "external" or "file"
	Emoji    string    `json:"emoji,omitempty"`
	External *FileLink `json:"external,omitempty"`
	File     *FileLink `json:"file,omitempty"`
}

// Query describes one data source query: filter and sort are fixed per collection.
type Query struct {
	DataSourceID string
	Filter       *Filter
	Sorts        []Sort
}

// Filter is an equality filter on a single property.
type Filter struct {
	Property string
	Type     PropertyType
	Equals   string
}

type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

type Sort struct {
	Property  string
	Direction SortDirection
}
