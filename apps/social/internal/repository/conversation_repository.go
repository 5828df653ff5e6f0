package repository

import (
	"context"
	"time"

	"CommunityServer/model"
	"CommunityServer/pkg/snowflake"
	"CommunityServer/pkg/util"

	"gorm.io/gorm"
)

// conversationRepositoryImpl 会话数据访问层实现
type conversationRepositoryImpl struct {
	db *gorm.DB
}

// NewConversationRepository 创建会话仓储实例
func NewConversationRepository(db *gorm.DB) IConversationRepository {
	return &conversationRepositoryImpl{db: db}
}

// CreateDirectAtomic 调用库端存储过程原子地"查找或创建"直聊会话。
// 直聊去重没有唯一约束可依赖，存储过程把判重和创建收进一个事务，是唯一无竞态的路径。
// 过程不存在（历史部署未建）返回 ErrProcedureMissing，调用方永久降级到客户端路径。
func (r *conversationRepositoryImpl) CreateDirectAtomic(ctx context.Context, viewerUUID, targetUUID string) (string, error) {
	var row struct {
		ConversationID string `gorm:"column:conversation_id"`
	}
	err := r.db.WithContext(ctx).
		Raw("CALL create_direct_conversation(?, ?)", viewerUUID, targetUUID).
		Scan(&row).Error
	if err != nil {
		if isProcedureMissing(err) {
			return "", ErrProcedureMissing
		}
		return "", WrapDBError(err)
	}
	if row.ConversationID == "" {
		return "", ErrRecordNotFound
	}
	return row.ConversationID, nil
}

// FindSharedDirect 客户端两步查找：先取 viewer 参与的会话集合，
// 再看 target 是否也在其中某个直聊里。没有共享直聊返回空串（不算错误）。
// 注意：这条路径和 CreateDirect 之间存在已知竞态（两端同时首聊可能各建一个），
// 只有存储过程路径能彻底避免。
func (r *conversationRepositoryImpl) FindSharedDirect(ctx context.Context, viewerUUID, targetUUID string) (string, error) {
	var viewerConvIDs []string
	if err := r.db.WithContext(ctx).
		Model(&model.ConversationParticipant{}).
		Where("user_id = ?", viewerUUID).
		Pluck("conversation_id", &viewerConvIDs).Error; err != nil {
		return "", WrapDBError(err)
	}
	if len(viewerConvIDs) == 0 {
		return "", nil
	}

	var sharedConvIDs []string
	if err := r.db.WithContext(ctx).
		Model(&model.ConversationParticipant{}).
		Where("user_id = ? AND conversation_id IN ?", targetUUID, viewerConvIDs).
		Pluck("conversation_id", &sharedConvIDs).Error; err != nil {
		return "", WrapDBError(err)
	}
	if len(sharedConvIDs) == 0 {
		return "", nil
	}

	// 共享集合里只认直聊（群聊同在不算）
	var directIDs []string
	if err := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id IN ? AND is_group = ?", sharedConvIDs, false).
		Limit(1).
		Pluck("id", &directIDs).Error; err != nil {
		return "", WrapDBError(err)
	}
	if len(directIDs) == 0 {
		return "", nil
	}
	return directIDs[0], nil
}

// conversationInsertShapes 会话插入的三种载荷形状，按字段从全到简排列。
// 老部署的 conversations 表可能没有 created_by / created_at 列，
// 报未知列时换下一个形状重试（同 follows 表的编码探测思路）。
func conversationInsertShapes(id, createdBy string, now time.Time) []map[string]interface{} {
	return []map[string]interface{}{
		{"id": id, "is_group": false, "created_by": createdBy, "created_at": now},
		{"id": id, "is_group": false, "created_at": now},
		{"id": id, "is_group": false},
	}
}

// CreateDirect 创建新的直聊会话：插入 conversations 一行 + 两条参与者记录。
// 会话 ID 取雪花 ID（雪花节点未初始化时退回 UUID）。
func (r *conversationRepositoryImpl) CreateDirect(ctx context.Context, viewerUUID, targetUUID string) (string, error) {
	convID := snowflake.NextID()
	if convID == "" {
		convID = util.NewUUID()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var insertErr error
		for _, shape := range conversationInsertShapes(convID, viewerUUID, time.Now()) {
			insertErr = tx.Table(model.Conversation{}.TableName()).Create(shape).Error
			if insertErr == nil {
				break
			}
			if !isSchemaMismatch(insertErr) {
				return insertErr
			}
		}
		if insertErr != nil {
			return insertErr
		}

		participants := []*model.ConversationParticipant{
			{ConversationID: convID, UserUuid: viewerUUID},
			{ConversationID: convID, UserUuid: targetUUID},
		}
		return tx.Create(&participants).Error
	})

	if err != nil {
		return "", WrapDBError(err)
	}
	return convID, nil
}
