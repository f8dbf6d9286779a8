package notion

import (
	"encoding/json"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

// QueryRequest is the body of POST /data_sources/{id}/query.
type QueryRequest struct {
	Filter      json.RawMessage `json:"filter,omitempty"`
	Sorts       []SortSpec      `json:"sorts,omitempty"`
	StartCursor string          `json:"start_cursor,omitempty"`
	PageSize    int             `json:"page_size,omitempty"`
}

type SortSpec struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

type QueryResponse struct {
	Results    []domain.Record `json:"results"`
	NextCursor *string         `json:"next_cursor"`
	HasMore    bool            `json:"has_more"`
}

type BlockChildrenResponse struct {
	Results    []domain.Block `json:"results"`
	NextCursor *string        `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}

// ErrorResponse is the error object Notion returns on non-2xx responses.
type ErrorResponse struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// filterJSON renders an equality filter in the Notion filter shape:
// {"property": "Status", "status": {"equals": "Published"}}.
func filterJSON(f *domain.Filter) (json.RawMessage, error) {
	if f == nil {
		return nil, nil
	}
	typ := f.Type
	if typ == "" {
		typ = domain.PropertySelect
	}
	return json.Marshal(map[string]any{
		"property":  f.Property,
		string(typ): map[string]string{"equals": f.Equals},
	})
}

func sortSpecs(sorts []domain.Sort) []SortSpec {
	if len(sorts) == 0 {
		return nil
	}
	out := make([]SortSpec, len(sorts))
	for i, s := range sorts {
		out[i] = SortSpec{Property: s.Property, Direction: string(s.Direction)}
	}
	return out
}

func cursorValue(c *string) string {
	if c == nil {
		return ""
	}
	return *c
}
