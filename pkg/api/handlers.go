package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"FocusRadar/pkg/admin"
	"FocusRadar/pkg/llm"
	"FocusRadar/pkg/model"
	"FocusRadar/pkg/search"
	"FocusRadar/pkg/seed"
	"FocusRadar/pkg/stats"
	"FocusRadar/pkg/week"
)

// TaskStore 任务存取能力
type TaskStore interface {
	Create(task *model.Task) error
	List(limit, offset int, startDate, endDate *time.Time) ([]model.Task, error)
	Count(startDate, endDate *time.Time) (int64, error)
	GetByID(taskID string) (*model.Task, error)
	Update(taskID string, updates map[string]interface{}) (*model.Task, error)
	Delete(taskID string) (bool, error)
}

// SummaryStore 周总结存取能力
type SummaryStore interface {
	Create(summary *model.WeeklySummary) error
	List(skip, limit int, startDate, endDate string) ([]model.WeeklySummary, error)
	GetByID(summaryID string) (*model.WeeklySummary, error)
	Update(summaryID string, updates map[string]interface{}) (*model.WeeklySummary, error)
	Delete(summaryID string) (bool, error)
	Count() (int64, error)
	SearchSimilar(queryText string, limit int, threshold float64) ([]model.WeeklySummary, error)
}

// SummaryGenerator 周总结生成能力
type SummaryGenerator interface {
	Generate(tasks []model.Task, weekStart, weekEnd string, weekStats model.WeeklyStats, context *llm.ContextSummaries) model.SummaryResponse
}

// BackfillRunner 回填编排能力
type BackfillRunner interface {
	Run(now time.Time) (admin.Result, error)
}

// SeedRunner 样例数据生成能力
type SeedRunner interface {
	Run(referenceDate time.Time) (seed.Result, error)
}

// EventPublisher 领域事件发布能力
type EventPublisher interface {
	Connected() bool
	PublishSummaryCreated(summary *model.WeeklySummary) error
	PublishBackfillCompleted(result admin.Result) error
}

// SearchOptions 相似度搜索配置
type SearchOptions struct {
	Threshold    float64
	DefaultLimit int
}

// Handlers API处理程序
type Handlers struct {
	tasks       TaskStore
	summaries   SummaryStore
	generator   SummaryGenerator
	backfill    BackfillRunner
	seeder      SeedRunner
	publisher   EventPublisher // 可为nil，事件发布是尽力而为
	highlighter *search.Highlighter
	searchOpts  SearchOptions
}

// NewHandlers 创建新的API处理程序
func NewHandlers(
	tasks TaskStore,
	summaries SummaryStore,
	generator SummaryGenerator,
	backfill BackfillRunner,
	seeder SeedRunner,
	publisher EventPublisher,
	searchOpts SearchOptions,
) *Handlers {
	return &Handlers{
		tasks:       tasks,
		summaries:   summaries,
		generator:   generator,
		backfill:    backfill,
		seeder:      seeder,
		publisher:   publisher,
		highlighter: search.NewHighlighter(),
		searchOpts:  searchOpts,
	}
}

// HealthCheck 健康检查处理程序
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ReadinessCheck 就绪检查处理程序
// 事件发布是可选能力，NATS断开只上报状态，不影响就绪
func (h *Handlers) ReadinessCheck(c *gin.Context) {
	nats := "disabled"
	if h.publisher != nil {
		if h.publisher.Connected() {
			nats = "connected"
		} else {
			nats = "disconnected"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"nats":   nats,
	})
}

// TaskCreateRequest 创建任务请求
type TaskCreateRequest struct {
	Name       string  `json:"name" binding:"required"`
	TimeSpent  float64 `json:"time_spent"`
	FocusLevel string  `json:"focus_level" binding:"required"`
	DateWorked string  `json:"date_worked" binding:"required"`
}

// CreateTask 创建任务处理程序
func (h *Handlers) CreateTask(c *gin.Context) {
	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	focus, err := model.ParseFocusLevel(req.FocusLevel)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dateWorked, err := time.Parse(week.ISODate, req.DateWorked)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的日期格式，应为 YYYY-MM-DD: " + req.DateWorked,
		})
		return
	}

	task, err := model.NewTask(req.Name, req.TimeSpent, focus, dateWorked)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tasks.Create(task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "创建任务失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListTasks 分页查询任务处理程序
func (h *Handlers) ListTasks(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "limit 必须在 1 到 100 之间",
		})
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "offset 不能为负数",
		})
		return
	}

	startDate, endDate, err := parseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := h.tasks.List(limit, offset, startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询任务失败: " + err.Error(),
		})
		return
	}

	total, err := h.tasks.Count(startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "统计任务数失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":    tasks,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"has_more": int64(offset+len(tasks)) < total,
	})
}

// GetTask 获取任务处理程序
func (h *Handlers) GetTask(c *gin.Context) {
	task, err := h.tasks.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "获取任务失败: " + err.Error(),
		})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// TaskUpdateRequest 更新任务请求，未提供的字段不更新
type TaskUpdateRequest struct {
	Name       *string  `json:"name"`
	TimeSpent  *float64 `json:"time_spent"`
	FocusLevel *string  `json:"focus_level"`
	DateWorked *string  `json:"date_worked"`
}

// UpdateTask 更新任务处理程序
func (h *Handlers) UpdateTask(c *gin.Context) {
	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.TimeSpent != nil {
		if *req.TimeSpent < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "任务耗时不能为负数"})
			return
		}
		updates["time_spent"] = *req.TimeSpent
	}
	if req.FocusLevel != nil {
		focus, err := model.ParseFocusLevel(*req.FocusLevel)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["focus_level"] = focus
	}
	if req.DateWorked != nil {
		dateWorked, err := time.Parse(week.ISODate, *req.DateWorked)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "无效的日期格式，应为 YYYY-MM-DD: " + *req.DateWorked,
			})
			return
		}
		updates["date_worked"] = dateWorked
	}

	task, err := h.tasks.Update(c.Param("id"), updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "更新任务失败: " + err.Error(),
		})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask 删除任务处理程序
func (h *Handlers) DeleteTask(c *gin.Context) {
	deleted, err := h.tasks.Delete(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "删除任务失败: " + err.Error(),
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "任务已删除"})
}

// CountTasks 统计任务数处理程序
func (h *Handlers) CountTasks(c *gin.Context) {
	count, err := h.tasks.Count(nil, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "统计任务数失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_tasks": count})
}

// TaskInput 请求体内联的任务（统计与总结生成用，不落库）
type TaskInput struct {
	Name       string  `json:"name"`
	TimeSpent  float64 `json:"time_spent"`
	FocusLevel string  `json:"focus_level"`
	DateWorked string  `json:"date_worked"`
}

// CalculateTaskStats 对请求体中的任务列表计算统计数据
func (h *Handlers) CalculateTaskStats(c *gin.Context) {
	var inputs []TaskInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}
	if len(inputs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "任务列表不能为空",
		})
		return
	}

	tasks, err := toModelTasks(inputs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats.Aggregate(tasks))
}

// toModelTasks 把内联任务转换为领域任务
func toModelTasks(inputs []TaskInput) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(inputs))
	for _, in := range inputs {
		focus, err := model.ParseFocusLevel(in.FocusLevel)
		if err != nil {
			return nil, err
		}

		task := model.Task{
			Name:       in.Name,
			TimeSpent:  in.TimeSpent,
			FocusLevel: focus,
		}
		if in.DateWorked != "" {
			dateWorked, err := time.Parse(week.ISODate, in.DateWorked)
			if err != nil {
				return nil, err
			}
			task.DateWorked = dateWorked
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// parseDateRange 解析可选的日期区间参数
func parseDateRange(startStr, endStr string) (startDate, endDate *time.Time, err error) {
	if startStr != "" {
		start, parseErr := time.Parse(week.ISODate, startStr)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		startDate = &start
	}
	if endStr != "" {
		end, parseErr := time.Parse(week.ISODate, endStr)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		endDate = &end
	}
	return startDate, endDate, nil
}

// publishSummaryCreated 尽力而为的事件发布，失败只记日志
func (h *Handlers) publishSummaryCreated(summary *model.WeeklySummary) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishSummaryCreated(summary); err != nil {
		log.Printf("发布周总结创建事件失败: %v\n", err)
	}
}
