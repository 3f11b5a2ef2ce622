package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FocusRadar/pkg/model"
)

func TestKeywords(t *testing.T) {
	h := NewHighlighter()

	// 长度不超过2的词被丢弃
	assert.Empty(t, h.Keywords("a an to"))

	// 同义词扩展
	keywords := h.Keywords("coding")
	assert.Contains(t, keywords, "coding")
	assert.Contains(t, keywords, "programming")
	assert.Contains(t, keywords, "development")
	assert.Contains(t, keywords, "software")
	assert.Contains(t, keywords, "code")

	// 无同义词的词原样保留
	assert.Equal(t, []string{"refactoring"}, h.Keywords("refactoring"))
}

func TestKeywordsDeduplicated(t *testing.T) {
	h := NewHighlighter()

	keywords := h.Keywords("coding code")
	seen := make(map[string]int)
	for _, kw := range keywords {
		seen[kw]++
	}
	assert.Equal(t, 1, seen["code"])
}

func TestApplyHighlightsSummaryAndRecommendations(t *testing.T) {
	h := NewHighlighter()
	summaries := []model.WeeklySummary{
		{
			Summary:         "Deep coding session this week",
			Recommendations: []string{"Schedule coding blocks", "Take breaks"},
		},
	}

	h.Apply(summaries, "coding")

	assert.Equal(t, "Deep <mark>coding</mark> session this week", summaries[0].Summary)
	assert.Equal(t, "Schedule <mark>coding</mark> blocks", summaries[0].Recommendations[0])
	assert.Equal(t, "Take breaks", summaries[0].Recommendations[1])
}

func TestApplySynonymExpansion(t *testing.T) {
	h := NewHighlighter()
	summaries := []model.WeeklySummary{
		{Summary: "Lots of programming and development work"},
	}

	h.Apply(summaries, "coding")

	assert.Contains(t, summaries[0].Summary, "<mark>programming</mark>")
	assert.Contains(t, summaries[0].Summary, "<mark>development</mark>")
}

func TestApplyCaseInsensitive(t *testing.T) {
	h := NewHighlighter()
	summaries := []model.WeeklySummary{{Summary: "Focus and FOCUS and focus"}}

	h.Apply(summaries, "focus")

	assert.Equal(t, "<mark>Focus</mark> and <mark>FOCUS</mark> and <mark>focus</mark>", summaries[0].Summary)
}

func TestApplyWholeWordStart(t *testing.T) {
	h := NewHighlighter()
	summaries := []model.WeeklySummary{{Summary: "refocus is not focused"}}

	h.Apply(summaries, "focus")

	// 词中间不命中，词首命中且允许延续
	assert.Equal(t, "refocus is not <mark>focused</mark>", summaries[0].Summary)
}

func TestApplyNoDoubleWrapping(t *testing.T) {
	h := NewHighlighter()
	summaries := []model.WeeklySummary{{Summary: "testing the test suite"}}

	// testing 的同义词含 test，两个关键词命中同一词也只包一层
	h.Apply(summaries, "testing test")

	assert.Equal(t, "<mark>testing</mark> the <mark>test</mark> suite", summaries[0].Summary)
}

func TestApplyShortQueryNoOp(t *testing.T) {
	h := NewHighlighter()
	summaries := []model.WeeklySummary{{Summary: "no change"}}

	h.Apply(summaries, "an")

	require.Equal(t, "no change", summaries[0].Summary)
}
