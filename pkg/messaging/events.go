// pkg/messaging/events.go
package messaging

import (
	"time"

	"FocusRadar/pkg/admin"
	"FocusRadar/pkg/model"
)

// 周总结事件主题
const (
	SubjectSummaryCreated    = "summaries.created"
	SubjectBackfillCompleted = "summaries.backfilled"
)

// SummaryCreatedEvent 周总结创建事件
type SummaryCreatedEvent struct {
	SummaryID string    `json:"summary_id"`
	WeekStart string    `json:"week_start"`
	WeekEnd   string    `json:"week_end"`
	CreatedAt time.Time `json:"created_at"`
}

// BackfillCompletedEvent 回填完成事件
type BackfillCompletedEvent struct {
	SummariesCreated  int       `json:"summaries_created"`
	EmbeddingsUpdated int       `json:"embeddings_updated"`
	CompletedAt       time.Time `json:"completed_at"`
}

// Publisher 周总结领域事件发布器
type Publisher struct {
	client *NATSClient
}

// NewPublisher 创建事件发布器
func NewPublisher(client *NATSClient) *Publisher {
	return &Publisher{client: client}
}

// Connected 底层NATS连接是否可用（就绪检查用）
func (p *Publisher) Connected() bool {
	return p.client.IsConnected()
}

// PublishSummaryCreated 发布周总结创建事件
func (p *Publisher) PublishSummaryCreated(summary *model.WeeklySummary) error {
	return p.client.Publish(SubjectSummaryCreated, SummaryCreatedEvent{
		SummaryID: summary.ID,
		WeekStart: summary.WeekStart,
		WeekEnd:   summary.WeekEnd,
		CreatedAt: summary.CreatedAt,
	})
}

// PublishBackfillCompleted 发布回填完成事件
func (p *Publisher) PublishBackfillCompleted(result admin.Result) error {
	return p.client.Publish(SubjectBackfillCompleted, BackfillCompletedEvent{
		SummariesCreated:  result.SummariesCreated,
		EmbeddingsUpdated: result.EmbeddingsUpdated,
		CompletedAt:       time.Now(),
	})
}
