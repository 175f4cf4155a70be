package odoo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Domain is an Odoo search domain, e.g. Domain{[]any{"active", "=", true}}.
type Domain []any

// Record is a field-projected record as returned by read and search_read.
type Record map[string]any

// ID decodes Odoo identifiers that may arrive as a number, false, null,
// or a many2one pair [id, "display name"].
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("false")), bytes.Equal(b, []byte("null")):
		*id = 0
		return nil
	case len(b) > 0 && b[0] == '[':
		var pair []json.RawMessage
		if err := json.Unmarshal(b, &pair); err != nil {
			return fmt.Errorf("decode many2one: %w", err)
		}
		if len(pair) == 0 {
			*id = 0
			return nil
		}
		return id.UnmarshalJSON(pair[0])
	default:
		var n int64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(n)
		return nil
	}
}

// Text decodes Odoo char fields, which are false when empty.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("false")) || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode text: %w", err)
	}
	*t = Text(s)
	return nil
}
