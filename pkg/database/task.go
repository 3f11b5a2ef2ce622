// pkg/database/task.go
package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"FocusRadar/pkg/model"
)

type TaskDB struct {
	db *gorm.DB
}

// Create 创建任务
func (t *TaskDB) Create(task *model.Task) error {
	if err := t.db.Create(task).Error; err != nil {
		return fmt.Errorf("保存任务失败: %w", err)
	}
	return nil
}

// List 分页查询任务，按日期倒序
// 日期过滤语义：>= startDate 且 < endDate
func (t *TaskDB) List(limit, offset int, startDate, endDate *time.Time) ([]model.Task, error) {
	var tasks []model.Task
	query := applyDateRange(t.db, startDate, endDate)

	err := query.Order("date_worked DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("查询任务失败: %w", err)
	}
	return tasks, nil
}

// Count 统计符合过滤条件的任务数
func (t *TaskDB) Count(startDate, endDate *time.Time) (int64, error) {
	var count int64
	query := applyDateRange(t.db.Model(&model.Task{}), startDate, endDate)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计任务数失败: %w", err)
	}
	return count, nil
}

// GetByID 按ID获取任务，不存在时返回 (nil, nil)
func (t *TaskDB) GetByID(taskID string) (*model.Task, error) {
	var task model.Task
	err := t.db.First(&task, "id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("获取任务失败: %w", err)
	}
	return &task, nil
}

// Update 部分字段更新，返回更新后的任务；不存在时返回 (nil, nil)
func (t *TaskDB) Update(taskID string, updates map[string]interface{}) (*model.Task, error) {
	task, err := t.GetByID(taskID)
	if err != nil || task == nil {
		return nil, err
	}

	if err := t.db.Model(task).Updates(withUpdatedAt(updates)).Error; err != nil {
		return nil, fmt.Errorf("更新任务失败: %w", err)
	}

	return t.GetByID(taskID)
}

// withUpdatedAt 复制更新字段并补上更新时间，不改动调用方的map
func withUpdatedAt(updates map[string]interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		fields[k] = v
	}
	fields["updated_at"] = time.Now()
	return fields
}

// Delete 删除任务，不存在时返回 false（不视为错误）
func (t *TaskDB) Delete(taskID string) (bool, error) {
	result := t.db.Delete(&model.Task{}, "id = ?", taskID)
	if result.Error != nil {
		return false, fmt.Errorf("删除任务失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// All 获取全部任务，按日期升序（回填扫描用）
func (t *TaskDB) All() ([]model.Task, error) {
	var tasks []model.Task
	if err := t.db.Order("date_worked ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("查询全部任务失败: %w", err)
	}
	return tasks, nil
}

// DeleteAll 清空任务表（仅供样例数据重置使用）
func (t *TaskDB) DeleteAll() error {
	if err := t.db.Exec("DELETE FROM tasks").Error; err != nil {
		return fmt.Errorf("清空任务表失败: %w", err)
	}
	return nil
}

func applyDateRange(query *gorm.DB, startDate, endDate *time.Time) *gorm.DB {
	if startDate != nil && endDate != nil {
		return query.Where("date_worked >= ? AND date_worked < ?", *startDate, *endDate)
	}
	if startDate != nil {
		return query.Where("date_worked >= ?", *startDate)
	}
	if endDate != nil {
		return query.Where("date_worked < ?", *endDate)
	}
	return query
}
