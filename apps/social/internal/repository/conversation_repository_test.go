package repository

import (
	"context"
	"testing"

	"CommunityServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openConversationTestRepo(t *testing.T) (IConversationRepository, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.Conversation{}, &model.ConversationParticipant{}))
	return NewConversationRepository(db), db
}

func seedConversation(t *testing.T, db *gorm.DB, id string, isGroup bool, members ...string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Conversation{ID: id, IsGroup: isGroup, CreatedBy: members[0]}).Error)
	for _, m := range members {
		require.NoError(t, db.Create(&model.ConversationParticipant{ConversationID: id, UserUuid: m}).Error)
	}
}

func TestCreateDirectAtomicWithoutProcedure(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	repo, _ := openConversationTestRepo(t)

	// sqlite 没有存储过程，CALL 必须映射成 ErrProcedureMissing（调用方据此永久降级）
	_, err := repo.CreateDirectAtomic(ctx, "u1", "u2")
	require.ErrorIs(t, err, ErrProcedureMissing)
}

func TestFindSharedDirect(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	repo, db := openConversationTestRepo(t)

	// 双方都没有会话
	convID, err := repo.FindSharedDirect(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, "", convID)

	// viewer 有会话但 target 不在里面
	seedConversation(t, db, "c-other", false, "u1", "u3")
	convID, err = repo.FindSharedDirect(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, "", convID)

	// 共同所在的群聊不算直聊
	seedConversation(t, db, "c-group", true, "u1", "u2", "u3")
	convID, err = repo.FindSharedDirect(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, "", convID)

	// 存在共享直聊时命中
	seedConversation(t, db, "c-direct", false, "u1", "u2")
	convID, err = repo.FindSharedDirect(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, "c-direct", convID)

	// 方向无关
	convID, err = repo.FindSharedDirect(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.Equal(t, "c-direct", convID)
}

func TestCreateDirect(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	repo, db := openConversationTestRepo(t)

	convID, err := repo.CreateDirect(ctx, "u1", "u2")
	require.NoError(t, err)
	require.NotEmpty(t, convID)

	var conv model.Conversation
	require.NoError(t, db.First(&conv, "id = ?", convID).Error)
	assert.False(t, conv.IsGroup)
	assert.Equal(t, "u1", conv.CreatedBy)

	var members []string
	require.NoError(t, db.Model(&model.ConversationParticipant{}).
		Where("conversation_id = ?", convID).
		Order("user_id").
		Pluck("user_id", &members).Error)
	assert.Equal(t, []string{"u1", "u2"}, members)

	// 新建的会话能被客户端路径找回
	found, err := repo.FindSharedDirect(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, convID, found)
}

func TestCreateDirectLegacySchema(t *testing.T) {
	initRepoTestLogger()
	ctx := context.Background()
	db := openTestDB(t)

	// 老部署：conversations 表没有 created_by / created_at 列，
	// 插入应逐个降级载荷形状直到成功
	require.NoError(t, db.Exec(
		`CREATE TABLE conversations (id TEXT PRIMARY KEY, is_group INTEGER NOT NULL DEFAULT 0)`).Error)
	require.NoError(t, db.AutoMigrate(&model.ConversationParticipant{}))
	repo := NewConversationRepository(db)

	convID, err := repo.CreateDirect(ctx, "u1", "u2")
	require.NoError(t, err)
	require.NotEmpty(t, convID)

	var cnt int64
	require.NoError(t, db.Table("conversations").Where("id = ?", convID).Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)

	require.NoError(t, db.Model(&model.ConversationParticipant{}).
		Where("conversation_id = ?", convID).Count(&cnt).Error)
	assert.Equal(t, int64(2), cnt)
}
