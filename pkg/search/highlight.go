// pkg/search/highlight.go
package search

import (
	"regexp"
	"strings"

	"FocusRadar/pkg/model"
)

// synonyms 固定的关键词同义词表，用于扩展高亮范围
var synonyms = map[string][]string{
	"coding":   {"programming", "development", "software", "code"},
	"meeting":  {"meetings", "call", "discussion", "collaboration"},
	"design":   {"ui", "ux", "interface", "mockup", "wireframe"},
	"testing":  {"qa", "debug", "bug", "test"},
	"focus":    {"concentration", "productivity", "deep work"},
	"planning": {"strategy", "roadmap", "organize"},
}

// Highlighter 搜索结果关键词高亮器
// 只做展示层加工，不参与相似度排序和阈值过滤
type Highlighter struct{}

// NewHighlighter 创建高亮器
func NewHighlighter() *Highlighter {
	return &Highlighter{}
}

// Keywords 从查询串提取关键词并做同义词扩展
// 规则：小写、按空白切分、长度大于2的词才保留
func (h *Highlighter) Keywords(query string) []string {
	seen := make(map[string]bool)
	var keywords []string

	add := func(word string) {
		if len(word) > 2 && !seen[word] {
			seen[word] = true
			keywords = append(keywords, word)
		}
	}

	for _, word := range strings.Fields(strings.ToLower(query)) {
		add(word)
		for _, syn := range synonyms[word] {
			add(syn)
		}
	}
	return keywords
}

// Apply 对搜索结果的总结文本与建议列表做关键词高亮（原地修改）
func (h *Highlighter) Apply(summaries []model.WeeklySummary, query string) {
	keywords := h.Keywords(query)
	pattern := buildPattern(keywords)
	if pattern == nil {
		return
	}

	for i := range summaries {
		summaries[i].Summary = highlight(summaries[i].Summary, pattern)
		for j, rec := range summaries[i].Recommendations {
			summaries[i].Recommendations[j] = highlight(rec, pattern)
		}
	}
}

// buildPattern 把全部关键词编译成一个整词匹配的正则
// 单趟替换天然避免重复包裹的问题
func buildPattern(keywords []string) *regexp.Regexp {
	if len(keywords) == 0 {
		return nil
	}

	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}

	// 整词起始、大小写不敏感，词尾允许延续（如 code -> coded）
	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\w*`)
	if err != nil {
		return nil
	}
	return re
}

func highlight(text string, pattern *regexp.Regexp) string {
	return pattern.ReplaceAllString(text, "<mark>$0</mark>")
}
