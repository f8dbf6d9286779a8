package property

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"¿Cómo usar Notion?", "como-usar-notion"},
		{"Año nuevo, vida nueva", "ano-nuevo-vida-nueva"},
		{"  --Hola   Mundo--  ", "hola-mundo"},
		{"Über Ça & Ğ", "uber-ca-g"},
		{"Notion 101: Bases", "notion-101-bases"},
		{"mi-slug-custom", "mi-slug-custom"},
		{"¿?", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlug_FromTitle(t *testing.T) {
	r := domain.Record{Properties: map[string]domain.Property{
		"Name": {Type: domain.PropertyTitle, Title: runs("¿Cómo usar Notion?")},
	}}

	assert.Equal(t, "como-usar-notion", Slug(r, []string{"Slug"}, []string{"Name", "Título"}))
}

func TestSlug_ExplicitOverridesTitle(t *testing.T) {
	r := domain.Record{Properties: map[string]domain.Property{
		"Name": {Type: domain.PropertyTitle, Title: runs("¿Cómo usar Notion?")},
		"Slug": {Type: domain.PropertyRichText, RichText: runs("mi-slug-custom")},
	}}

	assert.Equal(t, "mi-slug-custom", Slug(r, []string{"Slug"}, []string{"Name"}))
}

func TestSlug_EmptyExplicitFallsBackToTitle(t *testing.T) {
	r := domain.Record{Properties: map[string]domain.Property{
		"Name": {Type: domain.PropertyTitle, Title: runs("Primeros pasos")},
		"Slug": {Type: domain.PropertyRichText},
	}}

	assert.Equal(t, "primeros-pasos", Slug(r, []string{"Slug"}, []string{"Name"}))
}

func TestSlug_FallsBackToID(t *testing.T) {
	r := domain.Record{ID: "1F2E3D4C-aaaa-bbbb"}

	assert.Equal(t, "1f2e3d4caaaabbbb", Slug(r, []string{"Slug"}, []string{"Name"}))
}
