package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/toolshub/api/internal/model"
)

func catalog() []model.Tool {
	return []model.Tool{
		{ID: "a", Status: model.StatusPublished, Title: "FX Rate Checker", Category: "finance", Tags: []string{"rates", "trading"}},
		{ID: "b", Status: model.StatusPublished, Title: "Standup Bot", Category: "productivity", Tags: []string{"chatbot"}},
		{ID: "c", Status: model.StatusPending, Title: "Risk Dashboard", Category: "finance", Description: "exposure monitoring"},
	}
}

func ids(tools []model.Tool) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.ID
	}
	return out
}

func TestApplyNoFilters(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ids(Apply(catalog(), Query{})))
}

func TestApplyStatus(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ids(Apply(catalog(), Query{Status: model.StatusPublished})))
	assert.Equal(t, []string{"c"}, ids(Apply(catalog(), Query{Status: model.StatusPending})))
}

func TestApplyCategoryCaseInsensitive(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, ids(Apply(catalog(), Query{Category: "Finance"})))
}

func TestApplyTag(t *testing.T) {
	assert.Equal(t, []string{"b"}, ids(Apply(catalog(), Query{Tag: "chatbot"})))
	assert.Empty(t, Apply(catalog(), Query{Tag: "nonexistent"}))
}

func TestApplyText(t *testing.T) {
	assert.Equal(t, []string{"a"}, ids(Apply(catalog(), Query{Text: "rate checker"})))
	assert.Equal(t, []string{"c"}, ids(Apply(catalog(), Query{Text: "exposure"})))
}

func TestApplyCombined(t *testing.T) {
	got := Apply(catalog(), Query{Status: model.StatusPublished, Category: "finance", Tag: "rates"})
	assert.Equal(t, []string{"a"}, ids(got))
}
