package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddingSourceText(t *testing.T) {
	got := EmbeddingSourceText("2024-01-07", "2024-01-13", "Focused week", []string{"Keep it up"})
	assert.Equal(t, "Week 2024-01-07 to 2024-01-13\nSummary: Focused week\nRecommendations: Keep it up", got)
}

func TestEmbeddingSourceTextMultipleRecommendations(t *testing.T) {
	got := EmbeddingSourceText("2024-01-07", "2024-01-13", "s", []string{"a", "b", "c"})
	assert.Equal(t, "Week 2024-01-07 to 2024-01-13\nSummary: s\nRecommendations: a; b; c", got)
}

func TestEmbeddingSourceTextDeterministic(t *testing.T) {
	// 同样的输入必须产出逐字节一致的文本，否则历史嵌入失去可比性
	recs := []string{"Take breaks", "Plan ahead"}
	first := EmbeddingSourceText("2024-02-04", "2024-02-10", "Busy week", recs)
	second := EmbeddingSourceText("2024-02-04", "2024-02-10", "Busy week", recs)
	assert.Equal(t, first, second)
}

func TestWeeklySummaryValidate(t *testing.T) {
	valid := WeeklySummary{
		WeekStart: "2024-01-07",
		WeekEnd:   "2024-01-13",
		Summary:   "Focused week",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*WeeklySummary)
	}{
		{"周起始为空", func(s *WeeklySummary) { s.WeekStart = "" }},
		{"周结束为空", func(s *WeeklySummary) { s.WeekEnd = "" }},
		{"起始晚于结束", func(s *WeeklySummary) { s.WeekStart = "2024-01-14" }},
		{"总结为空", func(s *WeeklySummary) { s.Summary = "  " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}
