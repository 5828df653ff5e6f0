package dto

// ==================== 关系服务相关 DTO ====================

// GetRelationStatusRequest 查询关系状态请求 DTO
type GetRelationStatusRequest struct {
	TargetUUID string `form:"targetUuid" json:"targetUuid" binding:"required,max=64"` // 目标用户UUID
}

// GetRelationStatusResponse 查询关系状态响应 DTO
type GetRelationStatusResponse struct {
	TargetUUID string `json:"targetUuid"` // 目标用户UUID
	Status     string `json:"status"`     // 关系状态(self/guest/none/pending_sent/pending_received/following)
}

// ToggleRelationRequest 切换关系请求 DTO。
// CurrentStatus 是客户端上次解析到的关系状态，作为状态机的输入：
// 拿着过期状态重试会重放同一个迁移（幂等），而不是基于服务端的新状态
// 做出下一个迁移（比如把刚发出的申请又撤回）。
type ToggleRelationRequest struct {
	TargetUUID    string `json:"targetUuid" binding:"required,max=64"`                                            // 目标用户UUID
	CurrentStatus string `json:"currentStatus" binding:"required,oneof=none pending_sent pending_received following"` // 客户端视角的当前关系状态
}

// ToggleRelationResponse 切换关系响应 DTO
type ToggleRelationResponse struct {
	TargetUUID string `json:"targetUuid"` // 目标用户UUID
	Status     string `json:"status"`     // 切换后的关系状态
}

// GetUnreadRequestCountResponse 未读申请角标响应 DTO
type GetUnreadRequestCountResponse struct {
	Count int64 `json:"count"` // 未读申请数量
}
