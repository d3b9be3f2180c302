package mysql

import "encoding/json"

// marshalList serializes a label list for a TEXT column, "[]" when empty
func marshalList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// scanList deserializes a TEXT column back into a label list
func scanList(raw string) []string {
	var items []string
	if json.Unmarshal([]byte(raw), &items) != nil || items == nil {
		return []string{}
	}
	return items
}
