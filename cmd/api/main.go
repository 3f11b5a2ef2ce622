package main

import (
	"log"
	"time"

	"FocusRadar/pkg/admin"
	"FocusRadar/pkg/api"
	"FocusRadar/pkg/config"
	"FocusRadar/pkg/database"
	"FocusRadar/pkg/llm"
	"FocusRadar/pkg/messaging"
	"FocusRadar/pkg/scheduler"
	"FocusRadar/pkg/seed"
)

func main() {
	log.Println("启动API服务...")

	// 加载配置
	cfg, err := config.LoadConfig(config.GetDefaultConfigPath())
	if err != nil {
		log.Fatalf("加载配置失败: %v\n", err)
	}

	// 连接数据库并初始化表结构
	db, err := database.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("连接数据库失败: %v\n", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("初始化表结构失败: %v\n", err)
	}

	// 创建大模型客户端
	llmClient := llm.NewClient(
		cfg.OpenAI.APIURL,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.ChatModel,
		cfg.OpenAI.EmbeddingModel,
		cfg.OpenAI.Timeout,
	)
	generator := llm.NewSummaryGenerator(llmClient)
	embedder := llm.NewEmbedder(llmClient, cfg.OpenAI.EmbeddingDims)

	// 创建存储
	tasks := db.Tasks()
	summaries := db.Summaries(embedder)

	// 创建回填编排器与样例数据生成器
	backfill := admin.NewBackfill(tasks, summaries, generator, embedder)
	seeder := seed.NewSeeder(tasks, summaries, generator)

	// 连接NATS（可选，连不上只降级为不发事件）
	var publisher api.EventPublisher
	natsClient, err := messaging.NewNATSClient(cfg.NATS.URL)
	if err != nil {
		log.Printf("警告: 连接NATS失败，事件发布已禁用: %v\n", err)
	} else {
		defer natsClient.Close()
		publisher = messaging.NewPublisher(natsClient)
	}

	// 启动时跑一轮回填，补齐历史周
	if cfg.Backfill.RunOnStartup {
		go func() {
			result, err := backfill.Run(time.Now())
			if err != nil {
				log.Printf("启动回填失败: %v\n", err)
				return
			}
			log.Printf("启动回填完成: 新增总结 %d, 补齐嵌入 %d\n",
				result.SummariesCreated, result.EmbeddingsUpdated)
		}()
	}

	// 启动定时回填
	if cfg.Backfill.Cron != "" {
		sched := scheduler.NewScheduler(backfill, cfg.Backfill.Cron)
		if err := sched.Start(); err != nil {
			log.Printf("警告: 启动调度器失败: %v\n", err)
		} else {
			defer sched.Stop()
		}
	}

	// 创建API处理程序
	handlers := api.NewHandlers(tasks, summaries, generator, backfill, seeder, publisher, api.SearchOptions{
		Threshold:    cfg.Search.SimilarityThreshold,
		DefaultLimit: cfg.Search.DefaultLimit,
	})

	// 创建并启动服务器
	server := api.NewServer(cfg.API.Port)
	server.SetupRoutes(handlers)
	server.Start()
}
