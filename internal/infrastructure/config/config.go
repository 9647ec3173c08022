// Package config 提供应用配置
// 配置来源优先级：默认值 < YAML 配置文件 < 环境变量
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvHTTPPort   = "TODONEXT_HTTP_PORT"
	EnvDBPath     = "TODONEXT_DB_PATH"
	EnvJWTSecret  = "TODONEXT_JWT_SECRET"
	EnvMode       = "TODONEXT_MODE"
	EnvServerURL  = "TODONEXT_SERVER_URL"
	EnvConfigFile = "TODONEXT_CONFIG"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Client    ClientConfig    `yaml:"client"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string        `yaml:"http_port"` // HTTP 监听地址
	DBPath   string        `yaml:"db_path"`   // SQLite 数据库路径，空表示默认路径
	Secret   string        `yaml:"secret"`    // JWT 签名密钥（HS256）
	TokenTTL time.Duration `yaml:"token_ttl"` // 访问令牌有效期
}

// ClientConfig 客户端配置
type ClientConfig struct {
	// Mode 持久化模式：local（本地 JSON 文件）或 remote（托管后端）
	Mode string `yaml:"mode"`
	// ServerURL 远程模式下的后端地址
	ServerURL string `yaml:"server_url"`
	// StorePath 本地模式下的 JSON 文件路径，空表示默认路径
	StorePath string `yaml:"store_path"`
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
}

// 持久化模式
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// NewConfig 创建配置（默认值 + 配置文件 + 环境变量覆盖）
func NewConfig() *Config {
	cfg := defaults()

	// YAML 配置文件覆盖（可选）
	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			// 配置文件损坏属于致命配置错误
			panic(fmt.Sprintf("failed to load config file %s: %v", path, err))
		}
	}

	// 环境变量覆盖
	if v := os.Getenv(EnvHTTPPort); v != "" {
		cfg.Server.HTTPPort = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Server.DBPath = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		cfg.Server.Secret = v
	}
	if v := os.Getenv(EnvMode); v != "" {
		cfg.Client.Mode = v
	}
	if v := os.Getenv(EnvServerURL); v != "" {
		cfg.Client.ServerURL = v
	}

	return cfg
}

// defaults 默认配置
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":18080",
			DBPath:   "",
			Secret:   "dev-secret",
			TokenTTL: 24 * time.Hour,
		},
		Client: ClientConfig{
			Mode:      ModeLocal,
			ServerURL: "http://localhost:18080",
			StorePath: "",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// loadFile 从 YAML 文件加载配置
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}
