package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Block is a node of a page body. Payload holds the type-specific object
// (the value stored under the key named by Type in the API response).
type Block struct {
	ID          string
	Type        string
	HasChildren bool
	Payload     json.RawMessage
	Children    []Block
}

type blockJSON struct {
	Object      string  `json:"object,omitempty"`
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	HasChildren bool    `json:"has_children"`
	Children    []Block `json:"children,omitempty"`
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var head blockJSON
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decode block fields: %w", err)
	}

	*b = Block{
		ID:          head.ID,
		Type:        head.Type,
		HasChildren: head.HasChildren,
		Payload:     fields[head.Type],
		Children:    head.Children,
	}
	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"object":       "block",
		"id":           b.ID,
		"type":         b.Type,
		"has_children": b.HasChildren,
	}
	if len(b.Payload) > 0 && b.Type != "" {
		out[b.Type] = b.Payload
	}
	if b.Children != nil {
		out["children"] = b.Children
	}
	return json.Marshal(out)
}

// PlainText concatenates the rich text runs of the block payload, if it has any.
func (b Block) PlainText() string {
	if len(b.Payload) == 0 {
		return ""
	}
	var payload struct {
		RichText []RichText `json:"rich_text"`
	}
	if err := json.Unmarshal(b.Payload, &payload); err != nil {
		return ""
	}
	var sb strings.Builder
	for _, rt := range payload.RichText {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}
