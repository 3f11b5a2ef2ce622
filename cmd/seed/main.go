package main

import (
	"log"
	"time"

	"FocusRadar/pkg/config"
	"FocusRadar/pkg/database"
	"FocusRadar/pkg/llm"
	"FocusRadar/pkg/seed"
)

// 样例数据工具：清空既有数据并生成最近60天的任务与周总结
func main() {
	log.Println("启动样例数据生成...")

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

	seeder := seed.NewSeeder(db.Tasks(), db.Summaries(embedder), generator)

	result, err := seeder.Run(time.Now())
	if err != nil {
		log.Fatalf("生成样例数据失败: %v\n", err)
	}

	log.Printf("样例数据生成完成: 任务 %d, 周总结 %d\n",
		result.TasksCreated, result.SummariesCreated)
}
