// Package filter narrows the tool collection for catalog queries.
package filter

import (
	"strings"

	"github.com/toolshub/api/internal/model"
)

// Query is the set of catalog filters; zero values match everything.
type Query struct {
	Status   string
	Category string
	Tag      string
	Text     string
}

// Apply returns the tools matching every set filter, preserving order.
func Apply(tools []model.Tool, q Query) []model.Tool {
	out := make([]model.Tool, 0, len(tools))
	for _, t := range tools {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Category != "" && !strings.EqualFold(t.Category, q.Category) {
			continue
		}
		if q.Tag != "" && !hasTag(t.Tags, q.Tag) {
			continue
		}
		if q.Text != "" && !matchesText(&t, q.Text) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matchesText(t *model.Tool, text string) bool {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return true
	}
	for _, hay := range []string{t.Title, t.Description, t.FullDescription} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return hasTag(t.Tags, needle)
}
