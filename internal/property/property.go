// Package property projects typed values out of a Notion page property bag.
//
// Every accessor takes candidate property names in priority order and returns
// the value of the first one that is present with the expected type. A missing
// property or a type mismatch yields the zero value, never an error.
package property

import (
	"strings"
	"time"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

const dateLayout = "2006-01-02"

func lookup(r domain.Record, names []string, match func(domain.Property) bool) (domain.Property, bool) {
	for _, name := range names {
		p, ok := r.Properties[name]
		if ok && match(p) {
			return p, true
		}
	}
	return domain.Property{}, false
}

func is(types ...domain.PropertyType) func(domain.Property) bool {
	return func(p domain.Property) bool {
		for _, t := range types {
			if p.Type == t {
				return true
			}
		}
		return false
	}
}

// Plain concatenates the plain text of the runs in order.
func Plain(runs []domain.RichText) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.PlainText)
	}
	return sb.String()
}

func Title(r domain.Record, names ...string) string {
	p, ok := lookup(r, names, is(domain.PropertyTitle))
	if !ok {
		return ""
	}
	return Plain(p.Title)
}

func RichText(r domain.Record, names ...string) string {
	p, ok := lookup(r, names, is(domain.PropertyRichText))
	if !ok {
		return ""
	}
	return Plain(p.RichText)
}

// Text accepts either a title or a rich text property.
func Text(r domain.Record, names ...string) string {
	p, ok := lookup(r, names, is(domain.PropertyTitle, domain.PropertyRichText))
	if !ok {
		return ""
	}
	switch p.Type {
	case domain.PropertyTitle:
		return Plain(p.Title)
	case domain.PropertyRichText:
		return Plain(p.RichText)
	default:
		return ""
	}
}

// Select returns the option name of a select or status property.
func Select(r domain.Record, names ...string) string {
	p, ok := lookup(r, names, is(domain.PropertySelect, domain.PropertyStatus))
	if !ok {
		return ""
	}
	switch p.Type {
	case domain.PropertySelect:
		if p.Select != nil {
			return p.Select.Name
		}
	case domain.PropertyStatus:
		if p.Status != nil {
			return p.Status.Name
		}
	}
	return ""
}

func MultiSelect(r domain.Record, names ...string) []string {
	p, ok := lookup(r, names, is(domain.PropertyMultiSelect))
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(p.MultiSelect))
	for _, o := range p.MultiSelect {
		out = append(out, o.Name)
	}
	return out
}

// Date parses the start of a date property. It reports false when the
// property is absent, empty or unparseable.
func Date(r domain.Record, names ...string) (time.Time, bool) {
	p, ok := lookup(r, names, is(domain.PropertyDate))
	if !ok || p.Date == nil || p.Date.Start == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, p.Date.Start); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateLayout, p.Date.Start); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func Number(r domain.Record, names ...string) float64 {
	p, ok := lookup(r, names, is(domain.PropertyNumber))
	if !ok || p.Number == nil {
		return 0
	}
	return *p.Number
}

func Checkbox(r domain.Record, names ...string) bool {
	p, ok := lookup(r, names, is(domain.PropertyCheckbox))
	if !ok {
		return false
	}
	return p.Checkbox
}

func URL(r domain.Record, names ...string) string {
	p, ok := lookup(r, names, is(domain.PropertyURL))
	if !ok || p.URL == nil {
		return ""
	}
	return *p.URL
}

// Cover returns the URL of the page cover, external or uploaded.
func Cover(r domain.Record) string {
	if r.Cover == nil {
		return ""
	}
	switch r.Cover.Type {
	case "external":
		if r.Cover.External != nil {
			return r.Cover.External.URL
		}
	case "file":
		if r.Cover.File != nil {
			return r.Cover.File.URL
		}
	}
	return ""
}

// Icon returns the emoji literal or the URL of the page icon.
func Icon(r domain.Record) string {
	if r.Icon == nil {
		return ""
	}
	switch r.Icon.Type {
	case "emoji":
		return r.Icon.Emoji
	case "external":
		if r.Icon.External != nil {
			return r.Icon.External.URL
		}
	case "file":
		if r.Icon.File != nil {
			return r.Icon.File.URL
		}
	}
	return ""
}

// Emoji returns the page icon when it is an emoji.
func Emoji(r domain.Record) string {
	if r.Icon == nil || r.Icon.Type != "emoji" {
		return ""
	}
	return r.Icon.Emoji
}
