package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todonext/backend/internal/domain/todo"
)

// setupTestRepo 在临时目录创建测试数据库和仓储
func setupTestRepo(t *testing.T) todo.Repository {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "打开测试数据库失败")
	t.Cleanup(func() { db.Close() })

	return NewTodoRepository(db)
}

func TestTodoRepositorySaveAndFind(t *testing.T) {
	repo := setupTestRepo(t)

	item := &todo.Todo{
		Text:      "买牛奶",
		CreatedAt: time.Now(),
		UserID:    "alice",
	}
	require.NoError(t, repo.Save(item))
	assert.NotEmpty(t, item.ID, "保存时应生成ID")

	found, err := repo.FindByID(item.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, found, "应能查到已保存的待办")
	assert.Equal(t, "买牛奶", found.Text)
	assert.False(t, found.Completed)
	assert.False(t, found.Important)
	assert.Equal(t, "alice", found.UserID)
	assert.Equal(t, item.CreatedAt.UnixMilli(), found.CreatedAt.UnixMilli(), "创建时间应保留毫秒精度")
}

func TestTodoRepositoryFindByIDMissing(t *testing.T) {
	repo := setupTestRepo(t)

	found, err := repo.FindByID("missing-id", "alice")
	require.NoError(t, err, "查询不存在的待办不应报错")
	assert.Nil(t, found, "不存在的待办应返回 nil")
}

func TestTodoRepositoryUpsert(t *testing.T) {
	repo := setupTestRepo(t)

	item := &todo.Todo{
		Text:      "买牛奶",
		CreatedAt: time.Now(),
		UserID:    "alice",
	}
	require.NoError(t, repo.Save(item))

	item.Completed = true
	item.Important = true
	require.NoError(t, repo.Save(item))

	found, err := repo.FindByID(item.ID, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Completed, "重复保存应更新标记")
	assert.True(t, found.Important)

	items, err := repo.FindAllByUser("alice")
	require.NoError(t, err)
	assert.Len(t, items, 1, "重复保存不应产生新行")
}

func TestTodoRepositoryFindAllOrder(t *testing.T) {
	repo := setupTestRepo(t)

	base := time.Now()
	for i, text := range []string{"第一条", "第二条", "第三条"} {
		item := &todo.Todo{
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			UserID:    "alice",
		}
		require.NoError(t, repo.Save(item))
	}

	items, err := repo.FindAllByUser("alice")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "第三条", items[0].Text, "列表应按创建时间倒序")
	assert.Equal(t, "第二条", items[1].Text)
	assert.Equal(t, "第一条", items[2].Text)
}

func TestTodoRepositoryUserIsolation(t *testing.T) {
	repo := setupTestRepo(t)

	item := &todo.Todo{
		Text:      "alice的待办",
		CreatedAt: time.Now(),
		UserID:    "alice",
	}
	require.NoError(t, repo.Save(item))

	// 其他用户查不到
	found, err := repo.FindByID(item.ID, "bob")
	require.NoError(t, err)
	assert.Nil(t, found, "其他用户不应查到别人的待办")

	items, err := repo.FindAllByUser("bob")
	require.NoError(t, err)
	assert.Empty(t, items, "其他用户的列表应为空")

	// 其他用户删不掉
	affected, err := repo.Delete(item.ID, "bob")
	require.NoError(t, err)
	assert.Zero(t, affected, "其他用户的删除不应生效")

	found, err = repo.FindByID(item.ID, "alice")
	require.NoError(t, err)
	assert.NotNil(t, found, "原用户的待办应仍然存在")
}

func TestTodoRepositoryDelete(t *testing.T) {
	repo := setupTestRepo(t)

	item := &todo.Todo{
		Text:      "买牛奶",
		CreatedAt: time.Now(),
		UserID:    "alice",
	}
	require.NoError(t, repo.Save(item))

	affected, err := repo.Delete(item.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected, "删除应影响一行")

	found, err := repo.FindByID(item.ID, "alice")
	require.NoError(t, err)
	assert.Nil(t, found, "删除后应查不到")

	affected, err = repo.Delete(item.ID, "alice")
	require.NoError(t, err)
	assert.Zero(t, affected, "重复删除应影响零行")
}
