// pkg/llm/summary.go
package llm

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"FocusRadar/pkg/model"
)

const (
	// EmptyWeekSummary 空周的固定响应，不调用外部模型
	EmptyWeekSummary = "No tasks completed this week."
	// FallbackSummary 外部调用失败时的固定降级响应
	FallbackSummary = "Unable to generate AI summary. Please try again later."
)

const summarySystemPrompt = `You are a productivity coach for software engineers at a startup.
Analyze this week's productivity data and generate:
  1. A concise summary (2-3 sentences) of the week's tasks and productivity metrics. The summary should not mention the dates nor that this is a summary; focus on summarizing the actions taken and any correlation between action, focus, and time spent.
  2. 1-5 specific, actionable recommendations to improve efficiency or focus for the next week BASED UPON THE WEEK'S TASKS AND PRODUCTIVITY METRICS. Each should be a single sentence.

Do not suggest introducing a time tracking tool, that is what is being used to track these tasks.

Provide a JSON response with:
{
"summary": "2-3 sentence summary of the week",
"recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]
}`

// ChatCompleter 结构化文本生成能力
type ChatCompleter interface {
	ChatJSON(messages []Message, temperature float64) (string, error)
}

// ContextSummary 相邻周总结的引用，用于生成提示词上下文
type ContextSummary struct {
	WeekRange       string   `json:"week_range"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// ContextSummaries 目标周前后的总结上下文
type ContextSummaries struct {
	Before []ContextSummary `json:"before"`
	After  []ContextSummary `json:"after"`
}

// SummaryGenerator 周总结生成器
type SummaryGenerator struct {
	client ChatCompleter
}

// NewSummaryGenerator 创建周总结生成器
func NewSummaryGenerator(client ChatCompleter) *SummaryGenerator {
	return &SummaryGenerator{client: client}
}

// Generate 为一周任务生成总结与建议
// stats.TotalTasks == 0 时短路返回固定响应，不触发外部调用；
// 外部调用失败时本地降级为固定响应，永远不向调用方返回错误
func (g *SummaryGenerator) Generate(
	tasks []model.Task,
	weekStart, weekEnd string,
	weekStats model.WeeklyStats,
	context *ContextSummaries,
) model.SummaryResponse {
	if weekStats.TotalTasks == 0 {
		return model.SummaryResponse{
			Summary:         EmptyWeekSummary,
			Recommendations: []string{},
		}
	}

	prompt := buildSummaryPrompt(tasks, weekStart, weekEnd, weekStats, context)

	content, err := g.client.ChatJSON([]Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: prompt},
	}, 0.7)
	if err != nil {
		return fallbackResponse(err)
	}

	var resp model.SummaryResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return fallbackResponse(fmt.Errorf("解析模型输出失败: %w", err))
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []string{}
	}

	return resp
}

func fallbackResponse(err error) model.SummaryResponse {
	log.Printf("生成周总结失败，使用降级响应: %v\n", err)
	return model.SummaryResponse{
		Summary:         FallbackSummary,
		Recommendations: []string{},
	}
}

// buildSummaryPrompt 构建确定性的提示词
func buildSummaryPrompt(
	tasks []model.Task,
	weekStart, weekEnd string,
	weekStats model.WeeklyStats,
	context *ContextSummaries,
) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Week: %s to %s\n", weekStart, weekEnd)
	fmt.Fprintf(&sb, "Total Tasks: %d\n", weekStats.TotalTasks)
	fmt.Fprintf(&sb, "Total Hours: %s\n", weekStats.TotalHours)
	fmt.Fprintf(&sb, "Average Focus: %s\n\n", weekStats.AvgFocus)

	sb.WriteString("Tasks:\n")
	for _, task := range tasks {
		fmt.Fprintf(&sb, "- %s (%sh, %s focus)\n",
			task.Name, strconv.FormatFloat(task.TimeSpent, 'f', -1, 64), task.FocusLevel)
	}

	if block := buildContextBlock(context); block != "" {
		sb.WriteString("\n")
		sb.WriteString(block)
	}

	return sb.String()
}

// buildContextBlock 构建相邻周上下文，要求模型避免重复既有建议并认可进步
func buildContextBlock(context *ContextSummaries) string {
	if context == nil || (len(context.Before) == 0 && len(context.After) == 0) {
		return ""
	}

	var parts []string
	if len(context.Before) > 0 {
		parts = append(parts, "PREVIOUS WEEKS:")
		for _, s := range context.Before {
			parts = append(parts, formatContextSummary(s)...)
		}
	}
	if len(context.After) > 0 {
		parts = append(parts, "WEEKS AFTER:")
		for _, s := range context.After {
			parts = append(parts, formatContextSummary(s)...)
		}
	}

	header := "IMPORTANT: Use this context from previous and future weeks to provide DIFFERENT advice than what was already given. " +
		"Avoid repeating recommendations and focus on new insights or next steps in the user's productivity journey. " +
		"Praise them for ways they have implemented past recommendations or improved their productivity.\n\n"

	return header + strings.Join(parts, "\n")
}

func formatContextSummary(s ContextSummary) []string {
	lines := []string{fmt.Sprintf("* %s: %s", s.WeekRange, s.Summary)}
	if len(s.Recommendations) > 0 {
		lines = append(lines, fmt.Sprintf("  Recommendations: %s", strings.Join(s.Recommendations, ", ")))
	}
	return lines
}
