// pkg/database/summary.go
package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"FocusRadar/pkg/model"
)

// SummaryEmbedder 写入路径使用的嵌入能力
type SummaryEmbedder interface {
	EmbedText(text string) ([]float32, error)
}

// ErrWeekExists 同一周已存在总结（一周一总结不变量）
var ErrWeekExists = errors.New("该周已存在总结")

type SummaryDB struct {
	db       *gorm.DB
	embedder SummaryEmbedder
}

// Create 生成嵌入并持久化周总结
// 嵌入源文本模板是存储契约，见 model.EmbeddingSourceText；
// 交互式创建时嵌入失败直接返回错误，不会静默存入空嵌入
func (s *SummaryDB) Create(summary *model.WeeklySummary) error {
	if err := summary.Validate(); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&model.WeeklySummary{}).
		Where("week_start = ?", summary.WeekStart).
		Count(&count).Error; err != nil {
		return fmt.Errorf("检查周总结是否存在失败: %w", err)
	}
	if count > 0 {
		return ErrWeekExists
	}

	text := model.EmbeddingSourceText(summary.WeekStart, summary.WeekEnd, summary.Summary, summary.Recommendations)
	embedding, err := s.embedder.EmbedText(text)
	if err != nil {
		return err
	}
	vec := pgvector.NewVector(embedding)
	summary.Embedding = &vec

	if err := s.db.Create(summary).Error; err != nil {
		return fmt.Errorf("保存周总结失败: %w", err)
	}
	return nil
}

// CreateBare 不生成嵌入直接落库
// 样例数据生成走这里，嵌入之后由回填补齐
func (s *SummaryDB) CreateBare(summary *model.WeeklySummary) error {
	if err := summary.Validate(); err != nil {
		return err
	}
	if err := s.db.Create(summary).Error; err != nil {
		return fmt.Errorf("保存周总结失败: %w", err)
	}
	return nil
}

// List 分页查询周总结，按周起始日期倒序
// 过滤语义：两个日期都给时 week_start 在 [startDate, endDate] 闭区间内；
// 只给 startDate 时精确匹配；只给 endDate 时 week_start <= endDate
func (s *SummaryDB) List(skip, limit int, startDate, endDate string) ([]model.WeeklySummary, error) {
	var summaries []model.WeeklySummary
	query := s.db.Model(&model.WeeklySummary{})

	if cond, args := weekStartFilter(startDate, endDate); cond != "" {
		query = query.Where(cond, args...)
	}

	err := query.Order("week_start DESC").
		Offset(skip).
		Limit(limit).
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("查询周总结失败: %w", err)
	}
	return summaries, nil
}

// weekStartFilter 构造周起始日期的过滤条件
// 只给 startDate 时是精确匹配，不是 >=
func weekStartFilter(startDate, endDate string) (string, []interface{}) {
	switch {
	case startDate != "" && endDate != "":
		return "week_start >= ? AND week_start <= ?", []interface{}{startDate, endDate}
	case startDate != "":
		return "week_start = ?", []interface{}{startDate}
	case endDate != "":
		return "week_start <= ?", []interface{}{endDate}
	}
	return "", nil
}

// GetByID 按ID获取周总结，不存在时返回 (nil, nil)
func (s *SummaryDB) GetByID(summaryID string) (*model.WeeklySummary, error) {
	var summary model.WeeklySummary
	err := s.db.First(&summary, "id = ?", summaryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("获取周总结失败: %w", err)
	}
	return &summary, nil
}

// Update 部分字段更新，嵌入源文本涉及的字段变化时重新生成嵌入
// 不存在时返回 (nil, nil)
func (s *SummaryDB) Update(summaryID string, updates map[string]interface{}) (*model.WeeklySummary, error) {
	summary, err := s.GetByID(summaryID)
	if err != nil || summary == nil {
		return nil, err
	}

	needsNewEmbedding := applySummaryUpdates(summary, updates)

	if err := summary.Validate(); err != nil {
		return nil, err
	}

	if needsNewEmbedding {
		text := model.EmbeddingSourceText(summary.WeekStart, summary.WeekEnd, summary.Summary, summary.Recommendations)
		embedding, err := s.embedder.EmbedText(text)
		if err != nil {
			return nil, err
		}
		vec := pgvector.NewVector(embedding)
		summary.Embedding = &vec
	}

	summary.UpdatedAt = time.Now()
	if err := s.db.Save(summary).Error; err != nil {
		return nil, fmt.Errorf("更新周总结失败: %w", err)
	}
	return summary, nil
}

// applySummaryUpdates 把部分字段更新写入结构体，返回嵌入源文本是否失效
// 周起止日期也出现在嵌入源文本里，改日期同样要重新生成嵌入
func applySummaryUpdates(summary *model.WeeklySummary, updates map[string]interface{}) bool {
	stale := false
	if v, ok := updates["summary"].(string); ok && v != summary.Summary {
		summary.Summary = v
		stale = true
	}
	if v, ok := updates["recommendations"].([]string); ok {
		summary.Recommendations = v
		stale = true
	}
	if v, ok := updates["week_start"].(string); ok && v != summary.WeekStart {
		summary.WeekStart = v
		stale = true
	}
	if v, ok := updates["week_end"].(string); ok && v != summary.WeekEnd {
		summary.WeekEnd = v
		stale = true
	}
	return stale
}

// UpdateEmbedding 仅更新嵌入列（回填用）
func (s *SummaryDB) UpdateEmbedding(summaryID string, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	err := s.db.Model(&model.WeeklySummary{}).
		Where("id = ?", summaryID).
		Updates(map[string]interface{}{
			"embedding":  vec,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("更新嵌入失败: %w", err)
	}
	return nil
}

// Delete 删除周总结，不存在时返回 false（不视为错误）
func (s *SummaryDB) Delete(summaryID string) (bool, error) {
	result := s.db.Delete(&model.WeeklySummary{}, "id = ?", summaryID)
	if result.Error != nil {
		return false, fmt.Errorf("删除周总结失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Count 统计周总结总数
func (s *SummaryDB) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&model.WeeklySummary{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计周总结数失败: %w", err)
	}
	return count, nil
}

// All 获取全部周总结（回填扫描用）
func (s *SummaryDB) All() ([]model.WeeklySummary, error) {
	var summaries []model.WeeklySummary
	if err := s.db.Order("week_start ASC").Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("查询全部周总结失败: %w", err)
	}
	return summaries, nil
}

// WeekStarts 获取已有总结的周起始日期集合
func (s *SummaryDB) WeekStarts() (map[string]bool, error) {
	var starts []string
	err := s.db.Model(&model.WeeklySummary{}).Pluck("week_start", &starts).Error
	if err != nil {
		return nil, fmt.Errorf("查询周起始日期失败: %w", err)
	}

	set := make(map[string]bool, len(starts))
	for _, ws := range starts {
		set[ws] = true
	}
	return set, nil
}

// DeleteAll 清空周总结表（仅供样例数据重置使用）
func (s *SummaryDB) DeleteAll() error {
	if err := s.db.Exec("DELETE FROM weekly_summaries").Error; err != nil {
		return fmt.Errorf("清空周总结表失败: %w", err)
	}
	return nil
}

// SearchSimilar 向量相似度搜索
// 余弦相似度 = 1 - 余弦距离；只考虑嵌入非空的行，
// 保留相似度 >= threshold 的结果，按相似度降序，同分顺序不保证
func (s *SummaryDB) SearchSimilar(queryText string, limit int, threshold float64) ([]model.WeeklySummary, error) {
	queryEmbedding, err := s.embedder.EmbedText(queryText)
	if err != nil {
		return nil, err
	}
	queryVec := pgvector.NewVector(queryEmbedding)

	sqlQuery := `
		SELECT id, week_start, week_end, summary, stats, recommendations, created_at, updated_at,
		       1 - (embedding <=> ?::vector) AS similarity
		FROM weekly_summaries
		WHERE embedding IS NOT NULL AND 1 - (embedding <=> ?::vector) >= ?
		ORDER BY similarity DESC
		LIMIT ?
	`

	rows, err := s.db.Raw(sqlQuery, queryVec, queryVec, threshold, limit).Rows()
	if err != nil {
		return nil, fmt.Errorf("相似度搜索失败: %w", err)
	}
	defer rows.Close()

	var results []model.WeeklySummary
	for rows.Next() {
		var summary model.WeeklySummary
		var statsRaw, recsRaw []byte

		err := rows.Scan(
			&summary.ID, &summary.WeekStart, &summary.WeekEnd, &summary.Summary,
			&statsRaw, &recsRaw, &summary.CreatedAt, &summary.UpdatedAt,
			&summary.Similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("扫描行数据失败: %w", err)
		}

		if len(statsRaw) > 0 {
			if err := json.Unmarshal(statsRaw, &summary.Stats); err != nil {
				return nil, fmt.Errorf("解析统计数据失败: %w", err)
			}
		}
		if len(recsRaw) > 0 {
			if err := json.Unmarshal(recsRaw, &summary.Recommendations); err != nil {
				return nil, fmt.Errorf("解析建议列表失败: %w", err)
			}
		}

		results = append(results, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("迭代行数据失败: %w", err)
	}

	return results, nil
}
