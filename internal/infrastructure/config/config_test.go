package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ":18080", cfg.Server.HTTPPort, "默认 HTTP 端口")
	assert.Equal(t, 24*time.Hour, cfg.Server.TokenTTL, "默认令牌有效期")
	assert.Equal(t, ModeLocal, cfg.Client.Mode, "默认本地模式")
	assert.Equal(t, "http://localhost:18080", cfg.Client.ServerURL)
	assert.Equal(t, 1024, cfg.WebSocket.ReadBufferSize)
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv(EnvHTTPPort, ":19090")
	t.Setenv(EnvMode, ModeRemote)
	t.Setenv(EnvServerURL, "http://example.com:8080")
	t.Setenv(EnvJWTSecret, "test-secret")

	cfg := NewConfig()

	assert.Equal(t, ":19090", cfg.Server.HTTPPort, "环境变量应覆盖默认端口")
	assert.Equal(t, ModeRemote, cfg.Client.Mode, "环境变量应覆盖模式")
	assert.Equal(t, "http://example.com:8080", cfg.Client.ServerURL)
	assert.Equal(t, "test-secret", cfg.Server.Secret)
}

func TestNewConfigFromFile(t *testing.T) {
	content := `
server:
  http_port: ":20000"
  secret: file-secret
client:
  mode: remote
  server_url: http://file.example.com
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(EnvConfigFile, path)

	cfg := NewConfig()

	assert.Equal(t, ":20000", cfg.Server.HTTPPort, "配置文件应覆盖默认值")
	assert.Equal(t, "file-secret", cfg.Server.Secret)
	assert.Equal(t, ModeRemote, cfg.Client.Mode)
	assert.Equal(t, "http://file.example.com", cfg.Client.ServerURL)
	assert.Equal(t, 24*time.Hour, cfg.Server.TokenTTL, "未配置的字段应保留默认值")
}

func TestNewConfigEnvBeatsFile(t *testing.T) {
	content := `
server:
  http_port: ":20000"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvHTTPPort, ":21000")

	cfg := NewConfig()
	assert.Equal(t, ":21000", cfg.Server.HTTPPort, "环境变量优先于配置文件")
}

func TestNewConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml:::"), 0644))
	t.Setenv(EnvConfigFile, path)

	assert.Panics(t, func() { NewConfig() }, "损坏的配置文件属于致命错误")
}

func TestGetDataDir(t *testing.T) {
	ResetDataDir()
	t.Cleanup(ResetDataDir)

	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv(EnvDataDir, dir)

	assert.Equal(t, dir, GetDataDir(), "应优先使用环境变量指定的数据目录")
}
