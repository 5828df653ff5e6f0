package service

import (
	"context"

	"CommunityServer/apps/social/internal/dto"
	"CommunityServer/consts"
)

// RelationService 关系服务接口
type RelationService interface {
	// ResolveRelation 解析 viewer 对 target 的关系状态（派生值，不落库）。
	// viewerUUID 为空表示未登录访客。
	ResolveRelation(ctx context.Context, viewerUUID, targetUUID string) (consts.RelationStatus, error)
	// ToggleRelation 对当前状态执行一次"关注按钮"切换，返回切换后的状态
	ToggleRelation(ctx context.Context, viewerUUID string, req *dto.ToggleRelationRequest) (*dto.ToggleRelationResponse, error)
	// GetUnreadRequestCount 获取未读申请角标
	GetUnreadRequestCount(ctx context.Context, viewerUUID string) (*dto.GetUnreadRequestCountResponse, error)
	// MarkRequestsRead 清零未读申请角标
	MarkRequestsRead(ctx context.Context, viewerUUID string) error
}

// ConversationService 会话服务接口
type ConversationService interface {
	// OpenDirect 获取/创建与目标用户的单聊会话
	OpenDirect(ctx context.Context, viewerUUID string, req *dto.CreateDirectConversationRequest) (*dto.CreateDirectConversationResponse, error)
}

// ProfileService 资料卡服务接口
type ProfileService interface {
	// GetProfileCard 获取目标用户资料卡（含访问者视角的关系状态）
	GetProfileCard(ctx context.Context, viewerUUID string, req *dto.GetProfileCardRequest) (*dto.ProfileCard, error)
}
