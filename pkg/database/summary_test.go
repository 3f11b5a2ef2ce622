package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FocusRadar/pkg/model"
)

func TestWeekStartFilter(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		endDate   string
		wantCond  string
		wantArgs  []interface{}
	}{
		{
			name:      "两个日期闭区间",
			startDate: "2024-01-07",
			endDate:   "2024-01-21",
			wantCond:  "week_start >= ? AND week_start <= ?",
			wantArgs:  []interface{}{"2024-01-07", "2024-01-21"},
		},
		{
			name:      "只给起始日期精确匹配",
			startDate: "2024-01-07",
			wantCond:  "week_start = ?",
			wantArgs:  []interface{}{"2024-01-07"},
		},
		{
			name:     "只给结束日期小于等于",
			endDate:  "2024-01-21",
			wantCond: "week_start <= ?",
			wantArgs: []interface{}{"2024-01-21"},
		},
		{
			name:     "不给日期不过滤",
			wantCond: "",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, args := weekStartFilter(tt.startDate, tt.endDate)
			assert.Equal(t, tt.wantCond, cond)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestApplySummaryUpdates(t *testing.T) {
	base := func() *model.WeeklySummary {
		return &model.WeeklySummary{
			WeekStart:       "2024-01-07",
			WeekEnd:         "2024-01-13",
			Summary:         "Focused week",
			Recommendations: []string{"Keep it up"},
		}
	}

	t.Run("改叙述文本要重新嵌入", func(t *testing.T) {
		summary := base()
		stale := applySummaryUpdates(summary, map[string]interface{}{"summary": "Slow week"})
		assert.True(t, stale)
		assert.Equal(t, "Slow week", summary.Summary)
	})

	t.Run("改建议要重新嵌入", func(t *testing.T) {
		summary := base()
		stale := applySummaryUpdates(summary, map[string]interface{}{"recommendations": []string{"Rest more"}})
		assert.True(t, stale)
		assert.Equal(t, []string{"Rest more"}, summary.Recommendations)
	})

	t.Run("只改周日期也要重新嵌入", func(t *testing.T) {
		// 周起止日期是嵌入源文本的一部分
		summary := base()
		stale := applySummaryUpdates(summary, map[string]interface{}{
			"week_start": "2024-01-14",
			"week_end":   "2024-01-20",
		})
		assert.True(t, stale)
		assert.Equal(t, "2024-01-14", summary.WeekStart)
		assert.Equal(t, "2024-01-20", summary.WeekEnd)
	})

	t.Run("写入相同值不触发嵌入", func(t *testing.T) {
		summary := base()
		stale := applySummaryUpdates(summary, map[string]interface{}{
			"summary":    "Focused week",
			"week_start": "2024-01-07",
		})
		assert.False(t, stale)
	})

	t.Run("空更新不触发嵌入", func(t *testing.T) {
		summary := base()
		assert.False(t, applySummaryUpdates(summary, map[string]interface{}{}))
	})
}
