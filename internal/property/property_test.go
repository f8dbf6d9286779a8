package property

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

func runs(parts ...string) []domain.RichText {
	out := make([]domain.RichText, len(parts))
	for i, p := range parts {
		out[i] = domain.RichText{Type: "text", PlainText: p}
	}
	return out
}

func num(f float64) *float64 { return &f }

func str(s string) *string { return &s }

func record() domain.Record {
	return domain.Record{
		ID: "1f2e3d4c-0000-0000-0000-000000000001",
		Properties: map[string]domain.Property{
			"Título":      {Type: domain.PropertyTitle, Title: runs("¿Cómo ", "usar ", "Notion?")},
			"Descripción": {Type: domain.PropertyRichText, RichText: runs("Una ", "guía")},
			"Categoría":   {Type: domain.PropertySelect, Select: &domain.SelectOption{Name: "Productividad"}},
			"Status":      {Type: domain.PropertyStatus, Status: &domain.SelectOption{Name: "Published"}},
			"Tags":        {Type: domain.PropertyMultiSelect, MultiSelect: []domain.SelectOption{{Name: "a"}, {Name: "b"}}},
			"Fecha":       {Type: domain.PropertyDate, Date: &domain.DateValue{Start: "2024-03-10"}},
			"Orden":       {Type: domain.PropertyNumber, Number: num(3)},
			"Destacado":   {Type: domain.PropertyCheckbox, Checkbox: true},
			"Web":         {Type: domain.PropertyURL, URL: str("https://example.com")},
		},
	}
}

func TestAccessors_TypedValues(t *testing.T) {
	r := record()

	assert.Equal(t, "¿Cómo usar Notion?", Title(r, "Name", "Título"))
	assert.Equal(t, "Una guía", RichText(r, "Description", "Descripción"))
	assert.Equal(t, "Productividad", Select(r, "Category", "Categoría"))
	assert.Equal(t, "Published", Select(r, "Status"))
	assert.Equal(t, []string{"a", "b"}, MultiSelect(r, "Tags"))
	assert.Equal(t, 3.0, Number(r, "Order", "Orden"))
	assert.True(t, Checkbox(r, "Destacado"))
	assert.Equal(t, "https://example.com", URL(r, "Web"))

	d, ok := Date(r, "Date", "Fecha")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), d)
}

func TestAccessors_DefaultsWhenMissing(t *testing.T) {
	r := domain.Record{ID: "x"}

	assert.Equal(t, "", Title(r, "Name"))
	assert.Equal(t, "", RichText(r, "Descripción"))
	assert.Equal(t, "", Select(r, "Categoría"))
	assert.Equal(t, []string{}, MultiSelect(r, "Tags"))
	assert.Equal(t, 0.0, Number(r, "Orden"))
	assert.False(t, Checkbox(r, "Destacado"))
	assert.Equal(t, "", URL(r, "Web"))
	assert.Equal(t, "", Cover(r))
	assert.Equal(t, "", Icon(r))

	_, ok := Date(r, "Fecha")
	assert.False(t, ok)
}

func TestAccessors_DefaultsOnTypeMismatch(t *testing.T) {
	r := domain.Record{Properties: map[string]domain.Property{
		"Categoría": {Type: domain.PropertyRichText, RichText: runs("not a select")},
		"Orden":     {Type: domain.PropertyRichText, RichText: runs("3")},
		"Fecha":     {Type: domain.PropertyDate, Date: &domain.DateValue{Start: "someday"}},
		"Empty":     {Type: domain.PropertyNumber},
	}}

	assert.Equal(t, "", Select(r, "Categoría"))
	assert.Equal(t, 0.0, Number(r, "Orden"))
	assert.Equal(t, 0.0, Number(r, "Empty"))
	_, ok := Date(r, "Fecha")
	assert.False(t, ok)
}

func TestAccessors_FallbackSkipsMismatchedPrimary(t *testing.T) {
	r := domain.Record{Properties: map[string]domain.Property{
		"Category":  {Type: domain.PropertyCheckbox, Checkbox: true},
		"Categoría": {Type: domain.PropertySelect, Select: &domain.SelectOption{Name: "Guías"}},
	}}

	assert.Equal(t, "Guías", Select(r, "Category", "Categoría"))
}

func TestDate_DateTime(t *testing.T) {
	r := domain.Record{Properties: map[string]domain.Property{
		"Date": {Type: domain.PropertyDate, Date: &domain.DateValue{Start: "2024-03-10T09:30:00.000+02:00"}},
	}}

	d, ok := Date(r, "Date")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC), d.UTC())
}

func TestCoverAndIcon(t *testing.T) {
	external := domain.Record{
		Cover: &domain.File{Type: "external", External: &domain.FileLink{URL: "https://img.example/cover.png"}},
		Icon:  &domain.Icon{Type: "emoji", Emoji: "🚀"},
	}
	uploaded := domain.Record{
		Cover: &domain.File{Type: "file", File: &domain.FileLink{URL: "https://s3.example/cover.jpg?sig=1"}},
		Icon:  &domain.Icon{Type: "file", File: &domain.FileLink{URL: "https://s3.example/icon.png"}},
	}

	assert.Equal(t, "https://img.example/cover.png", Cover(external))
	assert.Equal(t, "🚀", Icon(external))
	assert.Equal(t, "🚀", Emoji(external))

	assert.Equal(t, "https://s3.example/cover.jpg?sig=1", Cover(uploaded))
	assert.Equal(t, "https://s3.example/icon.png", Icon(uploaded))
	assert.Equal(t, "", Emoji(uploaded))

	assert.Equal(t, "", Cover(domain.Record{Cover: &domain.File{Type: "external"}}))
}

func TestText_TitleOrRichText(t *testing.T) {
	r := record()
	assert.Equal(t, "Una guía", Text(r, "Descripción"))
	assert.Equal(t, "¿Cómo usar Notion?", Text(r, "Título"))
}
