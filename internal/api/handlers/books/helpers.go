package books

import (
	"encoding/json"
	"sort"
)

func sentFields(fields map[string]json.RawMessage) []string {
	out := make([]string, 0, len(fields))
	for k := range fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
