// pkg/llm/embedding.go
package llm

import (
	"fmt"
	"strings"
)

// TextEmbedder 文本嵌入能力
type TextEmbedder interface {
	Embed(text string) ([]float32, error)
}

// Embedder 嵌入生成器，负责输入归一化与输出规整
type Embedder struct {
	client TextEmbedder
	dims   int
}

// NewEmbedder 创建嵌入生成器，dims 为提供方的固定维度
func NewEmbedder(client TextEmbedder, dims int) *Embedder {
	return &Embedder{client: client, dims: dims}
}

// NormalizeText 归一化嵌入输入：小写、压缩空白、去首尾空白
// 写入与查询必须使用同一归一化，否则相似度语义被破坏
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = strings.Join(strings.Fields(text), " ")
	return text
}

// EmbedText 归一化文本后生成嵌入向量
// 结果是普通的float切片；提供方错误直接向调用方传播，不做本地降级
func (e *Embedder) EmbedText(text string) ([]float32, error) {
	embedding, err := e.client.Embed(NormalizeText(text))
	if err != nil {
		return nil, fmt.Errorf("生成嵌入失败: %w", err)
	}

	if e.dims > 0 && len(embedding) != e.dims {
		return nil, fmt.Errorf("嵌入维度不匹配: 期望 %d, 实际 %d", e.dims, len(embedding))
	}

	// 拷贝为普通切片，避免提供方内部类型泄漏到存储层
	result := make([]float32, len(embedding))
	copy(result, embedding)
	return result, nil
}
