package main

import (
	"encoding/json"
	"fmt"
	"io"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// printResult writes v as indented JSON, projected through query when set.
func printResult(w io.Writer, v any, query string) error {
	out := v
	if query != "" {
		projected, err := applyQuery(v, query)
		if err != nil {
			return err
		}
		out = projected
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// applyQuery evaluates a JMESPath expression against v. v is normalised through
// JSON first so typed values (records, sessions, raw results) are queryable by field name.
func applyQuery(v any, query string) (any, error) {
	expr, err := jmespath.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid -query expression: %w", errUsage, err)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}

	res, err := expr.Search(data)
	if err != nil {
		return nil, fmt.Errorf("evaluate -query: %w", err)
	}
	return res, nil
}
