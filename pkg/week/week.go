// pkg/week/week.go
package week

import (
	"time"

	"FocusRadar/pkg/model"
)

// ISO 周起始日期的序列化格式
const ISODate = "2006-01-02"

// Boundaries 计算日期所在周的边界（周日到周六）
// 若 d 本身是周日则 start = d
func Boundaries(d time.Time) (start, end time.Time) {
	day := truncate(d)
	start = day.AddDate(0, 0, -int(day.Weekday()))
	end = start.AddDate(0, 0, 6)
	return start, end
}

// StartOf 返回日期所在周的周日
func StartOf(d time.Time) time.Time {
	start, _ := Boundaries(d)
	return start
}

// GroupByWeek 按周起始日期（ISO字符串）对任务分组
// 组内保持输入顺序；键的遍历顺序不确定，需要确定性输出时由调用方自行排序
func GroupByWeek(tasks []model.Task) map[string][]model.Task {
	groups := make(map[string][]model.Task)
	for _, task := range tasks {
		key := StartOf(task.DateWorked).Format(ISODate)
		groups[key] = append(groups[key], task)
	}
	return groups
}

// truncate 去掉时间部分，只保留日期
func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
