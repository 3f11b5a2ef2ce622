package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FocusRadar/pkg/model"
)

func task(hours float64, focus model.FocusLevel) model.Task {
	return model.Task{Name: "t", TimeSpent: hours, FocusLevel: focus}
}

func TestAggregateEmpty(t *testing.T) {
	// 空任务集返回零值哨兵，不会除零
	got := Aggregate(nil)

	assert.Equal(t, 0, got.TotalTasks)
	assert.Equal(t, "0.0", got.TotalHours)
	assert.Equal(t, model.FocusNoTasks, got.AvgFocus)
}

func TestAggregateExample(t *testing.T) {
	// 3 + 2 + 1 = 6小时，均值 (3+3+2)/3 = 2.67 -> high
	got := Aggregate([]model.Task{
		task(2, model.FocusHigh),
		task(3, model.FocusHigh),
		task(1, model.FocusMedium),
	})

	assert.Equal(t, 3, got.TotalTasks)
	assert.Equal(t, "6.0", got.TotalHours)
	assert.Equal(t, model.FocusHigh, got.AvgFocus)
}

func TestAggregateFocusBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		tasks []model.Task
		want  model.FocusLevel
	}{
		{"均值1.0归low", []model.Task{task(1, model.FocusLow)}, model.FocusLow},
		{"均值1.5归medium", []model.Task{task(1, model.FocusLow), task(1, model.FocusMedium)}, model.FocusMedium},
		{"均值2.0归medium", []model.Task{task(1, model.FocusMedium)}, model.FocusMedium},
		{"均值2.5归high", []model.Task{task(1, model.FocusMedium), task(1, model.FocusHigh)}, model.FocusHigh},
		{"均值3.0归high", []model.Task{task(1, model.FocusHigh)}, model.FocusHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.tasks).AvgFocus)
		})
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0.0"},
		{6, "6.0"},
		{2.34, "2.3"},
		{2.36, "2.4"},
		{7.25, "7.2"}, // 银行家舍入
		{7.75, "7.8"},
		{0.75, "0.8"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHours(tt.hours), "hours=%v", tt.hours)
	}
}

func TestAggregateQuarterHours(t *testing.T) {
	got := Aggregate([]model.Task{
		task(0.25, model.FocusLow),
		task(0.5, model.FocusLow),
	})

	assert.Equal(t, "0.8", got.TotalHours)
	assert.Equal(t, model.FocusLow, got.AvgFocus)
}
