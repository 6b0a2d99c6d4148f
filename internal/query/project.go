package query

import (
	"encoding/json"
)

// Project keeps only the named JSON keys of each item. With no fields the
// items are returned unchanged.
func Project[T any](items []T, fields []string) ([]any, error) {
	out := make([]any, 0, len(items))
	if len(fields) == 0 {
		for _, it := range items {
			out = append(out, it)
		}
		return out, nil
	}

	for _, it := range items {
		raw, err := json.Marshal(it)
		if err != nil {
			return nil, err
		}
		var full map[string]json.RawMessage
		if err := json.Unmarshal(raw, &full); err != nil {
			return nil, err
		}
		trimmed := make(map[string]json.RawMessage, len(fields))
		for _, f := range fields {
			if v, ok := full[f]; ok {
				trimmed[f] = v
			}
		}
		out = append(out, trimmed)
	}
	return out, nil
}
