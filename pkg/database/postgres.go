// pkg/database/postgres.go
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"FocusRadar/pkg/config"
	"FocusRadar/pkg/model"
)

// Postgres PostgreSQL数据库连接
type Postgres struct {
	db *gorm.DB
}

// NewPostgres 创建新的PostgreSQL连接
func NewPostgres(cfg *config.Config) (*Postgres, error) {
	dbCfg := cfg.Database.Postgres

	// 构建连接字符串
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host, dbCfg.Port, dbCfg.User, dbCfg.Password, dbCfg.DBName, dbCfg.SSLMode,
	)

	// 连接数据库
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 设置连接池参数
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("测试数据库连接失败: %w", err)
	}

	return &Postgres{db: db}, nil
}

// AutoMigrate 初始化表结构与pgvector扩展
func (p *Postgres) AutoMigrate() error {
	if err := p.db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("创建vector扩展失败: %w", err)
	}

	if err := p.db.AutoMigrate(&model.Task{}, &model.WeeklySummary{}); err != nil {
		return fmt.Errorf("迁移表结构失败: %w", err)
	}

	// 嵌入列的近似最近邻索引，余弦距离
	if err := p.db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_weekly_summaries_embedding ON weekly_summaries USING hnsw (embedding vector_cosine_ops)",
	).Error; err != nil {
		return fmt.Errorf("创建向量索引失败: %w", err)
	}

	return nil
}

// Close 关闭数据库连接
func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Tasks 任务存储
func (p *Postgres) Tasks() *TaskDB {
	return &TaskDB{db: p.db}
}

// Summaries 周总结存储，embedder 用于写入时生成嵌入
func (p *Postgres) Summaries(embedder SummaryEmbedder) *SummaryDB {
	return &SummaryDB{db: p.db, embedder: embedder}
}
