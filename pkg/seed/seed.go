// pkg/seed/seed.go
package seed

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"FocusRadar/pkg/llm"
	"FocusRadar/pkg/model"
	"FocusRadar/pkg/stats"
	"FocusRadar/pkg/week"
)

const (
	// 降级文案：样例数据不应该带着错误提示入库
	fallbackSummary        = "Week completed with various tasks across different focus levels."
	fallbackRecommendation = "Continue maintaining consistent productivity patterns"
)

// TaskStore 样例数据需要的任务写入能力
type TaskStore interface {
	Create(task *model.Task) error
	DeleteAll() error
}

// SummaryStore 样例数据需要的周总结写入能力
// 不带嵌入落库，嵌入由回填补齐
type SummaryStore interface {
	CreateBare(summary *model.WeeklySummary) error
	DeleteAll() error
}

// SummaryGenerator 周总结生成能力
type SummaryGenerator interface {
	Generate(tasks []model.Task, weekStart, weekEnd string, weekStats model.WeeklyStats, context *llm.ContextSummaries) model.SummaryResponse
}

// Result 生成结果计数
type Result struct {
	TasksCreated     int `json:"tasks_created"`
	SummariesCreated int `json:"summaries_created"`
}

type taskTemplate struct {
	name     string
	minHours float64
	maxHours float64
	focus    model.FocusLevel
}

// 前三条固定用于参考日当天，保证三档专注度都出现
var taskTemplates = []taskTemplate{
	{"Get a beverage", 0.25, 0.25, model.FocusLow},
	{"Test the demo app", 0.5, 0.5, model.FocusMedium},
	{"Prepare hiring proposal", 1, 1, model.FocusHigh},

	// 开发类
	{"Frontend component development", 2, 6, model.FocusHigh},
	{"Backend API implementation", 3, 5, model.FocusHigh},
	{"Database optimization work", 2, 4, model.FocusHigh},
	{"Code review for authentication module", 1, 3, model.FocusHigh},
	{"Bug fixes in payment processing", 2, 4, model.FocusHigh},
	{"Performance optimization analysis", 2, 5, model.FocusHigh},
	{"Code refactoring - authentication", 3, 6, model.FocusHigh},
	{"API endpoint design", 2, 4, model.FocusHigh},
	{"Unit testing implementation", 1, 3, model.FocusMedium},
	{"Integration testing setup", 2, 4, model.FocusMedium},

	// 会议与协作
	{"Team standup meeting", 0.25, 0.5, model.FocusMedium},
	{"Sprint planning session", 1, 2, model.FocusMedium},
	{"Client meeting - project requirements", 0.5, 1.5, model.FocusMedium},
	{"Weekly retrospective", 0.5, 1, model.FocusMedium},
	{"Architecture discussion", 1, 2, model.FocusMedium},
	{"Code review session", 1, 2, model.FocusMedium},
	{"Mentoring junior developer", 0.5, 1.5, model.FocusMedium},
	{"Cross-team collaboration", 1, 2, model.FocusHigh},

	// 文档与行政
	{"Design system documentation", 1, 3, model.FocusMedium},
	{"Technical specification writing", 2, 4, model.FocusMedium},
	{"Documentation updates", 1, 3, model.FocusLow},
	{"Email and administrative tasks", 0.5, 1.5, model.FocusLow},
	{"Weekly planning session", 1, 2, model.FocusLow},
	{"Project status reporting", 0.5, 1, model.FocusLow},
	{"Time tracking and reporting", 0.25, 0.5, model.FocusLow},

	// 调研与学习
	{"Research new React patterns", 1, 3, model.FocusHigh},
	{"Technology evaluation", 2, 4, model.FocusHigh},
	{"Learning new framework", 2, 5, model.FocusLow},
	{"Security research and analysis", 2, 4, model.FocusHigh},
	{"Industry best practices review", 1, 3, model.FocusMedium},

	// 测试与质量
	{"Testing and QA session", 1, 3, model.FocusMedium},
	{"Manual testing workflow", 1, 2, model.FocusMedium},
	{"Automated test maintenance", 1, 3, model.FocusMedium},
	{"Bug investigation and analysis", 1, 4, model.FocusLow},
	{"Performance optimization", 1, 3, model.FocusHigh},
}

// Seeder 样例数据生成器，总是先清空既有数据
type Seeder struct {
	tasks     TaskStore
	summaries SummaryStore
	generator SummaryGenerator
	rng       *rand.Rand
}

// NewSeeder 创建样例数据生成器
func NewSeeder(tasks TaskStore, summaries SummaryStore, generator SummaryGenerator) *Seeder {
	return &Seeder{
		tasks:     tasks,
		summaries: summaries,
		generator: generator,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run 清空数据并生成参考日前60天的样例任务与周总结
// 破坏性操作：既有的任务与周总结全部删除
func (s *Seeder) Run(referenceDate time.Time) (Result, error) {
	if err := s.tasks.DeleteAll(); err != nil {
		return Result{}, err
	}
	if err := s.summaries.DeleteAll(); err != nil {
		return Result{}, err
	}
	log.Println("已清空既有数据")

	var result Result
	var currentWeekTasks []model.Task
	var currentWeekStart, currentWeekEnd string

	// 从参考日向前推60天，跨周时为上一周生成总结
	for dayOffset := 0; dayOffset < 60; dayOffset++ {
		taskDate := referenceDate.AddDate(0, 0, -dayOffset)
		weekStart, weekEnd := week.Boundaries(taskDate)
		weekStartStr := weekStart.Format(week.ISODate)

		if currentWeekStart != "" && weekStartStr != currentWeekStart && len(currentWeekTasks) > 0 {
			if err := s.createWeekSummary(currentWeekTasks, currentWeekStart, currentWeekEnd); err != nil {
				log.Printf("生成样例周总结失败 week_start=%s: %v\n", currentWeekStart, err)
			} else {
				result.SummariesCreated++
			}
			currentWeekTasks = nil
		}
		currentWeekStart = weekStartStr
		currentWeekEnd = weekEnd.Format(week.ISODate)

		for i := 0; i < s.taskCountForDay(taskDate, dayOffset); i++ {
			tpl := s.pickTemplate(dayOffset, i)

			// 耗时取模板区间内的随机值，按一刻钟取整
			hours := tpl.minHours + s.rng.Float64()*(tpl.maxHours-tpl.minHours)
			hours = math.Round(hours*4) / 4

			task, err := model.NewTask(tpl.name, hours, tpl.focus, taskDate)
			if err != nil {
				return result, err
			}
			if err := s.tasks.Create(task); err != nil {
				return result, fmt.Errorf("保存样例任务失败: %w", err)
			}
			result.TasksCreated++
			currentWeekTasks = append(currentWeekTasks, *task)
		}
	}

	// 最早的一周也要总结
	if len(currentWeekTasks) > 0 {
		if err := s.createWeekSummary(currentWeekTasks, currentWeekStart, currentWeekEnd); err != nil {
			log.Printf("生成样例周总结失败 week_start=%s: %v\n", currentWeekStart, err)
		} else {
			result.SummariesCreated++
		}
	}

	return result, nil
}

// taskCountForDay 参考日当天固定3条保证三档专注度都出现；
// 其余工作日1-6条，周末0-2条
func (s *Seeder) taskCountForDay(taskDate time.Time, dayOffset int) int {
	if dayOffset == 0 {
		return 3
	}
	if wd := taskDate.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return s.rng.Intn(3)
	}
	return 1 + s.rng.Intn(6)
}

func (s *Seeder) pickTemplate(dayOffset, taskIndex int) taskTemplate {
	if dayOffset == 0 && taskIndex < 3 {
		return taskTemplates[taskIndex]
	}
	return taskTemplates[s.rng.Intn(len(taskTemplates))]
}

func (s *Seeder) createWeekSummary(weekTasks []model.Task, weekStart, weekEnd string) error {
	weekStats := stats.Aggregate(weekTasks)

	resp := s.generator.Generate(weekTasks, weekStart, weekEnd, weekStats, nil)
	if resp.Summary == llm.FallbackSummary {
		resp = model.SummaryResponse{
			Summary:         fallbackSummary,
			Recommendations: []string{fallbackRecommendation},
		}
	}

	return s.summaries.CreateBare(&model.WeeklySummary{
		WeekStart:       weekStart,
		WeekEnd:         weekEnd,
		Summary:         resp.Summary,
		Stats:           weekStats,
		Recommendations: resp.Recommendations,
	})
}
