package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFocusLevel(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high", "no_tasks"} {
		got, err := ParseFocusLevel(valid)
		require.NoError(t, err)
		assert.Equal(t, FocusLevel(valid), got)
	}

	_, err := ParseFocusLevel("extreme")
	assert.Error(t, err)

	_, err = ParseFocusLevel("")
	assert.Error(t, err)
}

func TestFocusLevelScore(t *testing.T) {
	tests := []struct {
		focus FocusLevel
		score int
		ok    bool
	}{
		{FocusLow, 1, true},
		{FocusMedium, 2, true},
		{FocusHigh, 3, true},
		{FocusNoTasks, 0, false},
	}

	for _, tt := range tests {
		score, ok := tt.focus.Score()
		assert.Equal(t, tt.score, score)
		assert.Equal(t, tt.ok, ok)
	}
}

func TestNewTask(t *testing.T) {
	day := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	task, err := NewTask("  写周报  ", 1.5, FocusMedium, day)
	require.NoError(t, err)
	assert.Equal(t, "写周报", task.Name) // 名称去首尾空白
	assert.Equal(t, 1.5, task.TimeSpent)
	assert.Equal(t, FocusMedium, task.FocusLevel)
}

func TestNewTaskValidation(t *testing.T) {
	day := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		taskName  string
		timeSpent float64
		focus     FocusLevel
		date      time.Time
	}{
		{"名称为空", "", 1, FocusLow, day},
		{"名称只有空白", "   ", 1, FocusLow, day},
		{"耗时为负", "t", -0.5, FocusLow, day},
		{"专注程度非法", "t", 1, FocusLevel("extreme"), day},
		{"专注程度为哨兵值", "t", 1, FocusNoTasks, day},
		{"日期为零值", "t", 1, FocusLow, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTask(tt.taskName, tt.timeSpent, tt.focus, tt.date)
			assert.Error(t, err)
		})
	}
}
