package handlers

import (
	"encoding/json"
	"strings"
)

// splitCSV turns free-text comma-separated input into trimmed values,
// dropping empties ("a, ,b," -> ["a", "b"]).
func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	values := []string{}
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// parseStringList accepts both encodings the admin client produces for
// list fields: a JSON array, or free-text comma-separated.
func parseStringList(input string) []string {
	if input == "" {
		return []string{}
	}

	var values []string
	if err := json.Unmarshal([]byte(input), &values); err == nil {
		return values
	}
	return splitCSV(input)
}
