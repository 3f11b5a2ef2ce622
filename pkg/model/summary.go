// pkg/model/summary.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// WeeklyStats 周统计数据（按需计算，随总结一起落库）
type WeeklyStats struct {
	TotalTasks int        `json:"total_tasks"`
	TotalHours string     `json:"total_hours"` // 保留1位小数的字符串，保证提示词与嵌入文本稳定
	AvgFocus   FocusLevel `json:"avg_focus"`
}

// SummaryResponse 大模型生成的结构化总结
type SummaryResponse struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// WeeklySummary 周总结
type WeeklySummary struct {
	ID              string           `gorm:"type:uuid;primaryKey" json:"id"`
	WeekStart       string           `gorm:"type:varchar(10);not null;index" json:"week_start"` // ISO日期（周日）
	WeekEnd         string           `gorm:"type:varchar(10);not null;index" json:"week_end"`   // ISO日期（周六）
	Summary         string           `gorm:"type:text;not null" json:"summary"`
	Stats           WeeklyStats      `gorm:"type:jsonb;serializer:json" json:"stats"`
	Recommendations []string         `gorm:"type:jsonb;serializer:json" json:"recommendations"`
	Embedding       *pgvector.Vector `gorm:"type:vector(1536)" json:"-"` // 为空时等待回填
	Similarity      float64          `gorm:"-" json:"relevance_score,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (s *WeeklySummary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (WeeklySummary) TableName() string {
	return "weekly_summaries"
}

// Validate 校验周总结不变量：周起止合法、总结非空
func (s *WeeklySummary) Validate() error {
	if strings.TrimSpace(s.WeekStart) == "" {
		return fmt.Errorf("周起始日期不能为空")
	}
	if strings.TrimSpace(s.WeekEnd) == "" {
		return fmt.Errorf("周结束日期不能为空")
	}
	if s.WeekStart > s.WeekEnd {
		return fmt.Errorf("周起始日期不能晚于结束日期")
	}
	if strings.TrimSpace(s.Summary) == "" {
		return fmt.Errorf("总结内容不能为空")
	}
	return nil
}

// EmbeddingSourceText 构建嵌入源文本
// 该模板是存储契约的一部分：创建、更新与回填必须产出完全一致的文本，
// 否则历史嵌入失去可比性
func EmbeddingSourceText(weekStart, weekEnd, summary string, recommendations []string) string {
	return fmt.Sprintf("Week %s to %s\nSummary: %s\nRecommendations: %s",
		weekStart, weekEnd, summary, strings.Join(recommendations, "; "))
}
