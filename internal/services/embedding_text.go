package services

import (
	"encoding/json"
	"strings"

	"parkfinder/pkg/nps"
)

type namedItem struct {
	Name string `json:"name"`
}

// CreateEmbeddingText builds the text a park is embedded from: full name,
// description, activity names and topic names, empty parts dropped, joined
// by single spaces. The same park always yields the same text.
func CreateEmbeddingText(park nps.Park) string {
	parts := []string{
		park.FullName,
		park.Description,
		strings.Join(itemNames(park.Activities), " "),
		strings.Join(itemNames(park.Topics), " "),
	}

	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// itemNames reads the names out of a [{"name": ...}] document. Anything else
// contributes nothing.
func itemNames(doc json.RawMessage) []string {
	if len(doc) == 0 {
		return nil
	}
	var items []namedItem
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	return names
}
