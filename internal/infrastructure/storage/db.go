package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/todonext/backend/internal/infrastructure/config"
	_ "modernc.org/sqlite"
)

// GetDBPath 获取数据库路径
// 默认 <数据目录>/todonext.db
func GetDBPath() string {
	return filepath.Join(config.GetDataDir(), "todonext.db")
}

// OpenDB 打开数据库连接
// path 为空时使用默认路径
func OpenDB(path string) (*sql.DB, error) {
	if path == "" {
		path = GetDBPath()
	}

	// 确保目录存在
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ProvideDB 提供数据库连接（wire 用）
func ProvideDB(cfg *config.Config) (*sql.DB, error) {
	return OpenDB(cfg.Server.DBPath)
}
