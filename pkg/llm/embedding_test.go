package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTextEmbedder struct {
	lastInput string
	result    []float32
	err       error
}

func (f *fakeTextEmbedder) Embed(text string) ([]float32, error) {
	f.lastInput = text
	return f.result, f.err
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello world"},
		{"  Multiple   Spaces  ", "multiple spaces"},
		{"Tabs\tand\nnewlines", "tabs and newlines"},
		{"", ""},
		{"already normal", "already normal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeText(tt.input))
	}
}

func TestEmbedTextNormalizesInput(t *testing.T) {
	fake := &fakeTextEmbedder{result: []float32{0.1, 0.2, 0.3}}
	embedder := NewEmbedder(fake, 3)

	got, err := embedder.EmbedText("  Focused   WEEK  ")
	require.NoError(t, err)

	assert.Equal(t, "focused week", fake.lastInput)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got)
}

func TestEmbedTextDimensionMismatch(t *testing.T) {
	fake := &fakeTextEmbedder{result: []float32{0.1, 0.2}}
	embedder := NewEmbedder(fake, 3)

	_, err := embedder.EmbedText("text")
	assert.Error(t, err)
}

func TestEmbedTextPropagatesError(t *testing.T) {
	// 嵌入失败不做本地降级，错误直接向上传播
	fake := &fakeTextEmbedder{err: fmt.Errorf("配额用尽")}
	embedder := NewEmbedder(fake, 3)

	_, err := embedder.EmbedText("text")
	assert.Error(t, err)
}
