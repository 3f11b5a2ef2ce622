package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// Server API服务器
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// NewServer 创建新的API服务器
func NewServer(port string) *Server {
	router := gin.Default()

	// 设置中间件
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	return &Server{
		router: router,
		srv:    srv,
	}
}

// SetupRoutes 设置路由
func (s *Server) SetupRoutes(handlers *Handlers) {
	// 健康检查
	s.router.GET("/health", handlers.HealthCheck)
	s.router.GET("/ready", handlers.ReadinessCheck)

	// API v1 路由组
	v1 := s.router.Group("/api/v1")
	{
		// 任务接口
		v1.POST("/tasks", handlers.CreateTask)
		v1.GET("/tasks", handlers.ListTasks)
		v1.GET("/tasks/:id", handlers.GetTask)
		v1.PUT("/tasks/:id", handlers.UpdateTask)
		v1.DELETE("/tasks/:id", handlers.DeleteTask)
		v1.GET("/tasks/stats/count", handlers.CountTasks)
		v1.POST("/tasks/stats/calculate", handlers.CalculateTaskStats)

		// 周总结接口
		v1.POST("/summaries", handlers.CreateSummary)
		v1.GET("/summaries", handlers.ListSummaries)
		v1.GET("/summaries/search", handlers.SearchSummaries)
		v1.GET("/summaries/stats/count", handlers.CountSummaries)
		v1.GET("/summaries/:id", handlers.GetSummary)
		v1.PUT("/summaries/:id", handlers.UpdateSummary)
		v1.DELETE("/summaries/:id", handlers.DeleteSummary)

		// 管理接口
		v1.POST("/admin/regenerate-embeddings", handlers.RegenerateEmbeddings)
		v1.POST("/admin/generate-sample-data", handlers.GenerateSampleData)
	}
}

// Router 返回底层路由（测试用）
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start 启动服务器
func (s *Server) Start() {
	// 在goroutine中启动服务器
	go func() {
		log.Printf("API服务器启动在 %s\n", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务器失败: %v\n", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 设置超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v\n", err)
	}

	log.Println("服务器已关闭")
}
