package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	API struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"api"`

	Database struct {
		Postgres struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			DBName   string `yaml:"dbname"`
			SSLMode  string `yaml:"sslmode"`
		} `yaml:"postgres"`
	} `yaml:"database"`

	OpenAI struct {
		APIURL         string        `yaml:"api_url"`
		APIKey         string        `yaml:"api_key"`
		ChatModel      string        `yaml:"chat_model"`
		EmbeddingModel string        `yaml:"embedding_model"`
		EmbeddingDims  int           `yaml:"embedding_dims"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"openai"`

	NATS struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"client_id"`
	} `yaml:"nats"`

	Search struct {
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
		DefaultLimit        int     `yaml:"default_limit"`
	} `yaml:"search"`

	Backfill struct {
		RunOnStartup bool   `yaml:"run_on_startup"`
		Cron         string `yaml:"cron"`
	} `yaml:"backfill"`
}

// LoadConfig 从文件加载配置
func LoadConfig(path string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖
	overrideFromEnv(&config)

	applyDefaults(&config)

	return &config, nil
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(config *Config) {
	// 应用名称
	if env := os.Getenv("APP_NAME"); env != "" {
		config.App.Name = env
	}

	// 环境
	if env := os.Getenv("APP_ENV"); env != "" {
		config.App.Env = env
	}

	// 数据库配置
	if env := os.Getenv("DB_HOST"); env != "" {
		config.Database.Postgres.Host = env
	}
	if env := os.Getenv("DB_PORT"); env != "" {
		var port int
		fmt.Sscanf(env, "%d", &port)
		if port > 0 {
			config.Database.Postgres.Port = port
		}
	}
	if env := os.Getenv("DB_USER"); env != "" {
		config.Database.Postgres.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		config.Database.Postgres.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		config.Database.Postgres.DBName = env
	}

	// OpenAI配置
	if env := os.Getenv("OPENAI_API_URL"); env != "" {
		config.OpenAI.APIURL = env
	}
	if env := os.Getenv("OPENAI_API_KEY"); env != "" {
		config.OpenAI.APIKey = env
	}
	if env := os.Getenv("OPENAI_CHAT_MODEL"); env != "" {
		config.OpenAI.ChatModel = env
	}
	if env := os.Getenv("OPENAI_EMBEDDING_MODEL"); env != "" {
		config.OpenAI.EmbeddingModel = env
	}

	// NATS配置
	if env := os.Getenv("NATS_URL"); env != "" {
		config.NATS.URL = env
	}
	if env := os.Getenv("NATS_CLIENT_ID"); env != "" {
		config.NATS.ClientID = env
	}

	// API配置
	if env := os.Getenv("API_PORT"); env != "" {
		config.API.Port = env
	}
}

// applyDefaults 填充未配置项的默认值
func applyDefaults(config *Config) {
	if config.OpenAI.APIURL == "" {
		config.OpenAI.APIURL = "https://api.openai.com/v1"
	}
	if config.OpenAI.ChatModel == "" {
		config.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if config.OpenAI.EmbeddingModel == "" {
		config.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if config.OpenAI.EmbeddingDims == 0 {
		config.OpenAI.EmbeddingDims = 1536
	}
	if config.OpenAI.Timeout == 0 {
		config.OpenAI.Timeout = 30 * time.Second
	}
	if config.Search.SimilarityThreshold == 0 {
		config.Search.SimilarityThreshold = 0.7
	}
	if config.Search.DefaultLimit == 0 {
		config.Search.DefaultLimit = 5
	}
}

// GetDefaultConfigPath 获取默认配置文件路径
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 默认开发环境
	}

	return fmt.Sprintf("configs/%s/app.yaml", env)
}
