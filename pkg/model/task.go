// pkg/model/task.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FocusLevel 专注程度
type FocusLevel string

const (
	FocusLow    FocusLevel = "low"
	FocusMedium FocusLevel = "medium"
	FocusHigh   FocusLevel = "high"
	// FocusNoTasks 仅用于空周统计的哨兵值
	FocusNoTasks FocusLevel = "no_tasks"
)

// ParseFocusLevel 解析专注程度字符串
func ParseFocusLevel(s string) (FocusLevel, error) {
	switch FocusLevel(s) {
	case FocusLow, FocusMedium, FocusHigh, FocusNoTasks:
		return FocusLevel(s), nil
	default:
		return "", fmt.Errorf("无效的专注程度: %s", s)
	}
}

// Score 返回专注程度的数值映射（low=1, medium=2, high=3）
// no_tasks 不参与统计计算，返回 ok=false
func (f FocusLevel) Score() (int, bool) {
	switch f {
	case FocusLow:
		return 1, true
	case FocusMedium:
		return 2, true
	case FocusHigh:
		return 3, true
	default:
		return 0, false
	}
}

// Task 工作任务记录
type Task struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	TimeSpent  float64    `gorm:"not null" json:"time_spent"` // 耗时（小时）
	FocusLevel FocusLevel `gorm:"type:varchar(20);not null" json:"focus_level"`
	DateWorked time.Time  `gorm:"type:date;not null;index" json:"date_worked"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (Task) TableName() string {
	return "tasks"
}

// Validate 校验任务不变量：名称非空、耗时非负、专注程度合法
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("任务名称不能为空")
	}
	if t.TimeSpent < 0 {
		return fmt.Errorf("任务耗时不能为负数")
	}
	if _, err := ParseFocusLevel(string(t.FocusLevel)); err != nil {
		return err
	}
	if t.FocusLevel == FocusNoTasks {
		return fmt.Errorf("任务的专注程度不能为 no_tasks")
	}
	if t.DateWorked.IsZero() {
		return fmt.Errorf("任务日期不能为空")
	}
	return nil
}

// NewTask 创建并校验新任务
func NewTask(name string, timeSpent float64, focus FocusLevel, dateWorked time.Time) (*Task, error) {
	task := &Task{
		Name:       strings.TrimSpace(name),
		TimeSpent:  timeSpent,
		FocusLevel: focus,
		DateWorked: dateWorked,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}
