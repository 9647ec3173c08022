package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todonext/backend/internal/domain/todo"
	"github.com/todonext/backend/internal/infrastructure/config"
)

// newTestLocalStore 创建指向临时目录的本地适配器
func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()

	cfg := &config.Config{}
	cfg.Client.StorePath = filepath.Join(t.TempDir(), "todos.json")
	return NewLocalStore(cfg)
}

func TestLocalStoreFetchAllEmpty(t *testing.T) {
	store := newTestLocalStore(t)

	items, err := store.FetchAll("")
	require.NoError(t, err)
	assert.Empty(t, items, "文件不存在时应返回空列表")
}

func TestLocalStoreInsertAndFetch(t *testing.T) {
	store := newTestLocalStore(t)

	first, err := store.Insert("买牛奶", "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID, "新增的待办应有ID")
	assert.Equal(t, "买牛奶", first.Text)
	assert.False(t, first.Completed, "新增的待办应未完成")
	assert.False(t, first.Important, "新增的待办应不重要")

	time.Sleep(5 * time.Millisecond)
	second, err := store.Insert("写周报", "")
	require.NoError(t, err)

	items, err := store.FetchAll("")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID, "新创建的待办应排在前面")
	assert.Equal(t, first.ID, items[1].ID)
}

func TestLocalStorePersistsAcrossInstances(t *testing.T) {
	cfg := &config.Config{}
	cfg.Client.StorePath = filepath.Join(t.TempDir(), "todos.json")

	store := NewLocalStore(cfg)
	item, err := store.Insert("买牛奶", "")
	require.NoError(t, err)

	// 重新打开同一文件
	reopened := NewLocalStore(cfg)
	items, err := reopened.FetchAll("")
	require.NoError(t, err)
	require.Len(t, items, 1, "数据应持久化到文件")
	assert.Equal(t, item.ID, items[0].ID)
	assert.Equal(t, "买牛奶", items[0].Text)
}

func TestLocalStoreUpdate(t *testing.T) {
	store := newTestLocalStore(t)

	item, err := store.Insert("买牛奶", "")
	require.NoError(t, err)

	completed := true
	err = store.Update(item.ID, todo.Patch{Completed: &completed})
	require.NoError(t, err)

	items, err := store.FetchAll("")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Completed, "完成标记应已更新")
	assert.False(t, items[0].Important, "重要标记不应受影响")
}

func TestLocalStoreUpdateAbsentIsNoop(t *testing.T) {
	store := newTestLocalStore(t)

	completed := true
	err := store.Update("missing-id", todo.Patch{Completed: &completed})
	assert.NoError(t, err, "更新不存在的待办应被静默忽略")
}

func TestLocalStoreRemove(t *testing.T) {
	store := newTestLocalStore(t)

	item, err := store.Insert("买牛奶", "")
	require.NoError(t, err)

	err = store.Remove(item.ID)
	require.NoError(t, err)

	items, err := store.FetchAll("")
	require.NoError(t, err)
	assert.Empty(t, items, "删除后列表应为空")

	// 删除不存在的待办视为成功
	err = store.Remove(item.ID)
	assert.NoError(t, err, "重复删除应视为成功")
}

func TestLocalStoreCorruptFile(t *testing.T) {
	cfg := &config.Config{}
	cfg.Client.StorePath = filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(cfg.Client.StorePath, []byte("{not json"), 0644))

	store := NewLocalStore(cfg)
	_, err := store.FetchAll("")
	assert.Error(t, err, "损坏的文件应返回错误而不是静默清空")
}

func TestLocalStoreSubscribeNoop(t *testing.T) {
	store := newTestLocalStore(t)

	cancel, err := store.Subscribe(ChangeHandlers{})
	require.NoError(t, err)
	require.NotNil(t, cancel)
	cancel()
}
