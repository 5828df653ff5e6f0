package repository

import (
	"context"

	"CommunityServer/model"
)

// IFollowRepository 关注边数据访问接口。
// 底层关注表的列命名不唯一，每次操作内部自行探测并全程使用同一套编码。
type IFollowRepository interface {
	// HasFollow 判断 viewer 是否关注了 subject
	HasFollow(ctx context.Context, viewerUUID, subjectUUID string) (bool, error)
	// CreateFollow 建立 viewer -> subject 的关注边（已存在视为成功）
	CreateFollow(ctx context.Context, viewerUUID, subjectUUID string) error
	// DeleteFollow 删除 viewer -> subject 的关注边（不存在视为成功）
	DeleteFollow(ctx context.Context, viewerUUID, subjectUUID string) error
}

// IRequestRepository 关注申请（friend_requests）数据访问接口
type IRequestRepository interface {
	// UpsertPending 幂等创建 requester -> receiver 的待处理申请，
	// 返回是否真的新建了一行（冲突跳过时为 false）
	UpsertPending(ctx context.Context, requesterUUID, receiverUUID string) (bool, error)
	// HasPending 判断是否存在 requester -> receiver 的待处理申请
	HasPending(ctx context.Context, requesterUUID, receiverUUID string) (bool, error)
	// DeletePending 删除 requester -> receiver 的待处理申请（不存在视为成功）
	DeletePending(ctx context.Context, requesterUUID, receiverUUID string) error
	// Accept 将待处理申请置为已接受，返回是否真的改到了行
	Accept(ctx context.Context, requesterUUID, receiverUUID string) (bool, error)
	// UnreadCount 读取用户未读申请角标
	UnreadCount(ctx context.Context, userUUID string) (int64, error)
	// MarkRead 清零用户未读申请角标
	MarkRead(ctx context.Context, userUUID string) error
}

// IConversationRepository 会话数据访问接口
type IConversationRepository interface {
	// CreateDirectAtomic 通过存储过程原子化取回/创建单聊会话。
	// 存储过程未部署时返回 ErrProcedureMissing。
	CreateDirectAtomic(ctx context.Context, userA, userB string) (string, error)
	// FindSharedDirect 查找两人共同所在的单聊会话，不存在返回 ("", nil)
	FindSharedDirect(ctx context.Context, userA, userB string) (string, error)
	// CreateDirect 创建单聊会话并写入双方参与者，返回会话 ID
	CreateDirect(ctx context.Context, creatorUUID, otherUUID string) (string, error)
}

// IProfileRepository 用户资料数据访问接口（本服务只读）
type IProfileRepository interface {
	// GetByUUID 获取用户资料，不存在返回 (nil, nil)
	GetByUUID(ctx context.Context, uuid string) (*model.Profile, error)
}
