// pkg/stats/stats.go
package stats

import (
	"math"
	"strconv"

	"FocusRadar/pkg/model"
)

// Aggregate 将一周任务归约为统计数据
// 空任务集返回零值哨兵（total_tasks=0, total_hours="0.0", avg_focus=no_tasks），
// 永远不会除零
func Aggregate(tasks []model.Task) model.WeeklyStats {
	if len(tasks) == 0 {
		return model.WeeklyStats{
			TotalTasks: 0,
			TotalHours: "0.0",
			AvgFocus:   model.FocusNoTasks,
		}
	}

	var totalHours float64
	var focusSum int
	for _, task := range tasks {
		totalHours += task.TimeSpent
		if score, ok := task.FocusLevel.Score(); ok {
			focusSum += score
		}
	}

	avgFocus := bucketFocus(float64(focusSum) / float64(len(tasks)))

	return model.WeeklyStats{
		TotalTasks: len(tasks),
		TotalHours: FormatHours(totalHours),
		AvgFocus:   avgFocus,
	}
}

// FormatHours 将小时数四舍五入（银行家舍入）到1位小数并渲染为字符串
func FormatHours(hours float64) string {
	rounded := math.RoundToEven(hours*10) / 10
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}

// bucketFocus 将专注均值分桶：<1.5 low, <2.5 medium, 其余 high
// 阈值为严格小于，1.5 归入 medium，2.5 归入 high
func bucketFocus(avg float64) model.FocusLevel {
	switch {
	case avg < 1.5:
		return model.FocusLow
	case avg < 2.5:
		return model.FocusMedium
	default:
		return model.FocusHigh
	}
}
