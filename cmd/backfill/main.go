package main

import (
	"log"
	"time"

	"FocusRadar/pkg/admin"
	"FocusRadar/pkg/config"
	"FocusRadar/pkg/database"
	"FocusRadar/pkg/llm"
)

// 一次性回填工具：补齐缺失的周总结与嵌入后退出
func main() {
	log.Println("启动回填...")

	cfg, err := config.LoadConfig(config.GetDefaultConfigPath())
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	db, err := database.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("连接数据库失败: %v\n", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("初始化表结构失败: %v\n", err)
	}

	llmClient := llm.NewClient(
		cfg.OpenAI.APIURL,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.ChatModel,
		cfg.OpenAI.EmbeddingModel,
		cfg.OpenAI.Timeout,
	)
	generator := llm.NewSummaryGenerator(llmClient)
	embedder := llm.NewEmbedder(llmClient, cfg.OpenAI.EmbeddingDims)

	backfill := admin.NewBackfill(db.Tasks(), db.Summaries(embedder), generator, embedder)

	result, err := backfill.Run(time.Now())
	if err != nil {
		log.Fatalf("回填失败: %v\n", err)
	}

	log.Printf("回填完成: 新增总结 %d, 补齐嵌入 %d\n",
		result.SummariesCreated, result.EmbeddingsUpdated)
}
