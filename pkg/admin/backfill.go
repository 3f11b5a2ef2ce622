// pkg/admin/backfill.go
package admin

import (
	"fmt"
	"log"
	"sort"
	"time"

	"FocusRadar/pkg/llm"
	"FocusRadar/pkg/model"
	"FocusRadar/pkg/stats"
	"FocusRadar/pkg/week"
)

// TaskSource 回填需要的任务读取能力
type TaskSource interface {
	All() ([]model.Task, error)
}

// SummaryStore 回填需要的周总结存取能力
type SummaryStore interface {
	WeekStarts() (map[string]bool, error)
	Create(summary *model.WeeklySummary) error
	All() ([]model.WeeklySummary, error)
	UpdateEmbedding(summaryID string, embedding []float32) error
}

// SummaryGenerator 周总结生成能力
type SummaryGenerator interface {
	Generate(tasks []model.Task, weekStart, weekEnd string, weekStats model.WeeklyStats, context *llm.ContextSummaries) model.SummaryResponse
}

// Embedder 嵌入生成能力
type Embedder interface {
	EmbedText(text string) ([]float32, error)
}

// Result 回填结果计数，是实际成功项的准确统计
type Result struct {
	SummariesCreated  int `json:"summaries_created"`
	EmbeddingsUpdated int `json:"embeddings_updated"`
}

// Backfill 幂等的补数编排器：补齐缺失的周总结，再补齐缺失的嵌入
// 两趟都容忍单项失败：某一周失败不会中断其余周的扫描；
// 无新数据时连续运行是空操作
type Backfill struct {
	tasks     TaskSource
	summaries SummaryStore
	generator SummaryGenerator
	embedder  Embedder
}

// NewBackfill 创建回填编排器
func NewBackfill(tasks TaskSource, summaries SummaryStore, generator SummaryGenerator, embedder Embedder) *Backfill {
	return &Backfill{
		tasks:     tasks,
		summaries: summaries,
		generator: generator,
		embedder:  embedder,
	}
}

// Run 依次执行两趟回填，返回各自的成功计数
func (b *Backfill) Run(now time.Time) (Result, error) {
	created, err := b.SummaryBackfill(now)
	if err != nil {
		return Result{}, err
	}

	updated, err := b.EmbeddingBackfill()
	if err != nil {
		return Result{SummariesCreated: created}, err
	}

	return Result{SummariesCreated: created, EmbeddingsUpdated: updated}, nil
}

// SummaryBackfill 为每个有任务但没有总结的历史周生成总结
// 包含 now 的进行中的周不补（未结束的周不应定稿）
func (b *Backfill) SummaryBackfill(now time.Time) (int, error) {
	existing, err := b.summaries.WeekStarts()
	if err != nil {
		return 0, fmt.Errorf("加载已有周总结失败: %w", err)
	}

	tasks, err := b.tasks.All()
	if err != nil {
		return 0, fmt.Errorf("加载任务失败: %w", err)
	}

	groups := week.GroupByWeek(tasks)
	currentWeek := week.StartOf(now).Format(week.ISODate)

	// 按周起始日期升序处理，日志与计数可复现
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	created := 0
	for _, weekStart := range keys {
		if existing[weekStart] || weekStart == currentWeek {
			continue
		}
		weekTasks := groups[weekStart]
		if len(weekTasks) == 0 {
			continue
		}

		if err := b.createWeekSummary(weekStart, weekTasks); err != nil {
			log.Printf("回填周总结失败 week_start=%s: %v\n", weekStart, err)
			continue
		}
		created++
	}

	return created, nil
}

func (b *Backfill) createWeekSummary(weekStart string, weekTasks []model.Task) error {
	startDay, err := time.Parse(week.ISODate, weekStart)
	if err != nil {
		return fmt.Errorf("解析周起始日期失败: %w", err)
	}
	weekEnd := startDay.AddDate(0, 0, 6).Format(week.ISODate)

	weekStats := stats.Aggregate(weekTasks)
	resp := b.generator.Generate(weekTasks, weekStart, weekEnd, weekStats, nil)
	if resp.Summary == "" {
		return fmt.Errorf("生成结果为空")
	}

	return b.summaries.Create(&model.WeeklySummary{
		WeekStart:       weekStart,
		WeekEnd:         weekEnd,
		Summary:         resp.Summary,
		Stats:           weekStats,
		Recommendations: resp.Recommendations,
	})
}

// EmbeddingBackfill 为嵌入缺失的周总结重建嵌入
// 源文本与创建路径使用同一模板，保证嵌入可比性
func (b *Backfill) EmbeddingBackfill() (int, error) {
	summaries, err := b.summaries.All()
	if err != nil {
		return 0, fmt.Errorf("加载周总结失败: %w", err)
	}

	updated := 0
	for _, summary := range summaries {
		if summary.Embedding != nil {
			continue
		}

		text := model.EmbeddingSourceText(summary.WeekStart, summary.WeekEnd, summary.Summary, summary.Recommendations)
		embedding, err := b.embedder.EmbedText(text)
		if err != nil {
			log.Printf("回填嵌入失败 id=%s: %v\n", summary.ID, err)
			continue
		}

		if err := b.summaries.UpdateEmbedding(summary.ID, embedding); err != nil {
			log.Printf("写入嵌入失败 id=%s: %v\n", summary.ID, err)
			continue
		}
		updated++
	}

	return updated, nil
}
