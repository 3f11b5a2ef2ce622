package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"FocusRadar/pkg/database"
	"FocusRadar/pkg/llm"
	"FocusRadar/pkg/model"
	"FocusRadar/pkg/stats"
)

// SummaryCreateRequest 生成周总结请求
type SummaryCreateRequest struct {
	Tasks            []TaskInput           `json:"tasks"`
	WeekStart        string                `json:"week_start" binding:"required"`
	WeekEnd          string                `json:"week_end" binding:"required"`
	WeekStats        *model.WeeklyStats    `json:"week_stats"`
	ContextSummaries *llm.ContextSummaries `json:"context_summaries"`
}

// CreateSummary 生成并存储周总结处理程序
func (h *Handlers) CreateSummary(c *gin.Context) {
	var req SummaryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}
	if len(req.Tasks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "任务列表不能为空，无法生成总结",
		})
		return
	}

	tasks, err := toModelTasks(req.Tasks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weekStats := stats.Aggregate(tasks)
	if req.WeekStats != nil {
		weekStats = *req.WeekStats
	}

	resp := h.generator.Generate(tasks, req.WeekStart, req.WeekEnd, weekStats, req.ContextSummaries)

	// 生成结果校验：降级文案非空所以能通过，真正的空响应报500
	if resp.Summary == "" || len(resp.Recommendations) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "生成周总结失败，模型响应为空",
		})
		return
	}

	summary := &model.WeeklySummary{
		WeekStart:       req.WeekStart,
		WeekEnd:         req.WeekEnd,
		Summary:         resp.Summary,
		Stats:           weekStats,
		Recommendations: resp.Recommendations,
	}

	if err := h.summaries.Create(summary); err != nil {
		if errors.Is(err, database.ErrWeekExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "保存周总结失败: " + err.Error(),
		})
		return
	}

	h.publishSummaryCreated(summary)

	c.JSON(http.StatusOK, summary)
}

// ListSummaries 分页查询周总结处理程序
func (h *Handlers) ListSummaries(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip 不能为负数"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须在 1 到 100 之间"})
		return
	}

	// 带query参数时走语义搜索
	if query := c.Query("query"); query != "" {
		results, err := h.summaries.SearchSimilar(query, limit, h.searchOpts.Threshold)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "搜索周总结失败: " + err.Error(),
			})
			return
		}
		h.highlighter.Apply(results, query)
		c.JSON(http.StatusOK, results)
		return
	}

	summaries, err := h.summaries.List(skip, limit, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查询周总结失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// SearchSummaries 相似度搜索处理程序
// 高亮只是展示层加工，不影响排序与阈值过滤
func (h *Handlers) SearchSummaries(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "query 参数不能为空",
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.searchOpts.DefaultLimit)))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须在 1 到 100 之间"})
		return
	}

	results, err := h.summaries.SearchSimilar(query, limit, h.searchOpts.Threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "搜索周总结失败: " + err.Error(),
		})
		return
	}

	h.highlighter.Apply(results, query)

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// GetSummary 获取周总结处理程序
func (h *Handlers) GetSummary(c *gin.Context) {
	summary, err := h.summaries.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "获取周总结失败: " + err.Error(),
		})
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "周总结不存在"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SummaryUpdateRequest 更新周总结请求，未提供的字段不更新
type SummaryUpdateRequest struct {
	WeekStart       *string  `json:"week_start"`
	WeekEnd         *string  `json:"week_end"`
	Summary         *string  `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// UpdateSummary 更新周总结处理程序（内容变化时重新生成嵌入）
func (h *Handlers) UpdateSummary(c *gin.Context) {
	var req SummaryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "无效的请求参数: " + err.Error(),
		})
		return
	}

	updates := make(map[string]interface{})
	if req.WeekStart != nil {
		updates["week_start"] = *req.WeekStart
	}
	if req.WeekEnd != nil {
		updates["week_end"] = *req.WeekEnd
	}
	if req.Summary != nil {
		updates["summary"] = *req.Summary
	}
	if req.Recommendations != nil {
		updates["recommendations"] = req.Recommendations
	}

	summary, err := h.summaries.Update(c.Param("id"), updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "更新周总结失败: " + err.Error(),
		})
		return
	}
	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "周总结不存在"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteSummary 删除周总结处理程序
func (h *Handlers) DeleteSummary(c *gin.Context) {
	deleted, err := h.summaries.Delete(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "删除周总结失败: " + err.Error(),
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "周总结不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "周总结已删除"})
}

// CountSummaries 统计周总结数处理程序
func (h *Handlers) CountSummaries(c *gin.Context) {
	count, err := h.summaries.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "统计周总结数失败: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_summaries": count})
}
