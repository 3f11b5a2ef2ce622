package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"FocusRadar/pkg/admin"
)

// Scheduler 定时回填调度器
type Scheduler struct {
	cron     *cron.Cron
	backfill *admin.Backfill
	spec     string
}

// NewScheduler 创建调度器，spec 为标准5段cron表达式
func NewScheduler(backfill *admin.Backfill, spec string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		backfill: backfill,
		spec:     spec,
	}
}

// Start 启动调度器
func (s *Scheduler) Start() error {
	// 定期补齐缺失的周总结与嵌入
	if _, err := s.cron.AddFunc(s.spec, s.runBackfill); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("回填调度器已启动: %s\n", s.spec)
	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// runBackfill 执行一轮回填
func (s *Scheduler) runBackfill() {
	log.Println("开始定时回填...")
	result, err := s.backfill.Run(time.Now())
	if err != nil {
		log.Printf("定时回填失败: %v\n", err)
		return
	}
	log.Printf("定时回填完成: 新增总结 %d, 补齐嵌入 %d\n",
		result.SummariesCreated, result.EmbeddingsUpdated)
}
