package admin

import (
	"fmt"
	"testing"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FocusRadar/pkg/llm"
	"FocusRadar/pkg/model"
)

func toVector(v []float32) *pgvector.Vector {
	vec := pgvector.NewVector(v)
	return &vec
}

type fakeTaskSource struct {
	tasks []model.Task
	err   error
}

func (f *fakeTaskSource) All() ([]model.Task, error) {
	return f.tasks, f.err
}

type fakeSummaryStore struct {
	summaries  []model.WeeklySummary
	createErr  map[string]error // 按week_start注入失败
	embeddings map[string][]float32
}

func newFakeSummaryStore() *fakeSummaryStore {
	return &fakeSummaryStore{
		createErr:  make(map[string]error),
		embeddings: make(map[string][]float32),
	}
}

func (f *fakeSummaryStore) WeekStarts() (map[string]bool, error) {
	set := make(map[string]bool)
	for _, s := range f.summaries {
		set[s.WeekStart] = true
	}
	return set, nil
}

func (f *fakeSummaryStore) Create(summary *model.WeeklySummary) error {
	if err := f.createErr[summary.WeekStart]; err != nil {
		return err
	}
	summary.ID = fmt.Sprintf("id-%d", len(f.summaries))
	f.summaries = append(f.summaries, *summary)
	return nil
}

func (f *fakeSummaryStore) All() ([]model.WeeklySummary, error) {
	return f.summaries, nil
}

func (f *fakeSummaryStore) UpdateEmbedding(summaryID string, embedding []float32) error {
	for i := range f.summaries {
		if f.summaries[i].ID == summaryID {
			f.embeddings[summaryID] = embedding
			vec := toVector(embedding)
			f.summaries[i].Embedding = vec
			return nil
		}
	}
	return fmt.Errorf("周总结不存在: %s", summaryID)
}

type fakeGenerator struct {
	calls int
}

func (f *fakeGenerator) Generate(tasks []model.Task, weekStart, weekEnd string, weekStats model.WeeklyStats, context *llm.ContextSummaries) model.SummaryResponse {
	f.calls++
	return model.SummaryResponse{
		Summary:         fmt.Sprintf("Summary for %s", weekStart),
		Recommendations: []string{"Keep it up"},
	}
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) EmbedText(text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func taskOn(day time.Time) model.Task {
	return model.Task{Name: "t", TimeSpent: 2, FocusLevel: model.FocusHigh, DateWorked: day}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSummaryBackfillCreatesMissingWeeks(t *testing.T) {
	// 两个历史周 + 当前周，当前周不补
	now := date(2024, time.January, 17) // 所在周起点 2024-01-14
	tasks := &fakeTaskSource{tasks: []model.Task{
		taskOn(date(2024, time.January, 2)),  // 周 2023-12-31
		taskOn(date(2024, time.January, 8)),  // 周 2024-01-07
		taskOn(date(2024, time.January, 15)), // 当前周 2024-01-14
	}}
	store := newFakeSummaryStore()
	gen := &fakeGenerator{}

	b := NewBackfill(tasks, store, gen, &fakeEmbedder{})
	created, err := b.SummaryBackfill(now)

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	require.Len(t, store.summaries, 2)
	assert.Equal(t, "2023-12-31", store.summaries[0].WeekStart)
	assert.Equal(t, "2024-01-06", store.summaries[0].WeekEnd)
	assert.Equal(t, "2024-01-07", store.summaries[1].WeekStart)
}

func TestSummaryBackfillSkipsExistingWeeks(t *testing.T) {
	now := date(2024, time.January, 17)
	tasks := &fakeTaskSource{tasks: []model.Task{
		taskOn(date(2024, time.January, 8)),
	}}
	store := newFakeSummaryStore()
	store.summaries = append(store.summaries, model.WeeklySummary{
		ID: "existing", WeekStart: "2024-01-07", WeekEnd: "2024-01-13", Summary: "done",
	})
	gen := &fakeGenerator{}

	b := NewBackfill(tasks, store, gen, &fakeEmbedder{})
	created, err := b.SummaryBackfill(now)

	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Zero(t, gen.calls)
}

func TestSummaryBackfillContinuesOnItemFailure(t *testing.T) {
	// 一周落库失败不影响其他周
	now := date(2024, time.January, 17)
	tasks := &fakeTaskSource{tasks: []model.Task{
		taskOn(date(2024, time.January, 2)),
		taskOn(date(2024, time.January, 8)),
	}}
	store := newFakeSummaryStore()
	store.createErr["2023-12-31"] = fmt.Errorf("数据库连接断开")

	b := NewBackfill(tasks, store, &fakeGenerator{}, &fakeEmbedder{})
	created, err := b.SummaryBackfill(now)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, store.summaries, 1)
	assert.Equal(t, "2024-01-07", store.summaries[0].WeekStart)
}

func TestEmbeddingBackfillFillsNullEmbeddings(t *testing.T) {
	store := newFakeSummaryStore()
	vec := toVector([]float32{1, 2, 3})
	store.summaries = []model.WeeklySummary{
		{ID: "a", WeekStart: "2024-01-07", WeekEnd: "2024-01-13", Summary: "s1"},
		{ID: "b", WeekStart: "2024-01-14", WeekEnd: "2024-01-20", Summary: "s2", Embedding: vec},
	}
	embedder := &fakeEmbedder{}

	b := NewBackfill(&fakeTaskSource{}, store, &fakeGenerator{}, embedder)
	updated, err := b.EmbeddingBackfill()

	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, embedder.calls) // 已有嵌入的不重算
	assert.Contains(t, store.embeddings, "a")
}

func TestEmbeddingBackfillContinuesOnFailure(t *testing.T) {
	store := newFakeSummaryStore()
	store.summaries = []model.WeeklySummary{
		{ID: "a", WeekStart: "2024-01-07", WeekEnd: "2024-01-13", Summary: "s1"},
	}
	embedder := &fakeEmbedder{err: fmt.Errorf("配额用尽")}

	b := NewBackfill(&fakeTaskSource{}, store, &fakeGenerator{}, embedder)
	updated, err := b.EmbeddingBackfill()

	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestRunIsIdempotent(t *testing.T) {
	// 无新数据时第二轮是空操作
	now := date(2024, time.January, 17)
	tasks := &fakeTaskSource{tasks: []model.Task{
		taskOn(date(2024, time.January, 2)),
		taskOn(date(2024, time.January, 8)),
	}}
	store := newFakeSummaryStore()

	b := NewBackfill(tasks, store, &fakeGenerator{}, &fakeEmbedder{})

	first, err := b.Run(now)
	require.NoError(t, err)
	assert.Equal(t, 2, first.SummariesCreated)
	assert.Equal(t, 2, first.EmbeddingsUpdated)

	second, err := b.Run(now)
	require.NoError(t, err)
	assert.Zero(t, second.SummariesCreated)
	assert.Zero(t, second.EmbeddingsUpdated)
}
