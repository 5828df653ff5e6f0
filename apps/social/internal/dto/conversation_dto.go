package dto

// ==================== 会话服务相关 DTO ====================

// CreateDirectConversationRequest 获取/创建单聊会话请求 DTO
type CreateDirectConversationRequest struct {
	TargetUUID string `json:"targetUuid" binding:"required,max=64"` // 对方用户UUID
}

// CreateDirectConversationResponse 获取/创建单聊会话响应 DTO
// ConversationID 为空表示会话服务暂不可用，客户端应退回收件箱列表
type CreateDirectConversationResponse struct {
	ConversationID string `json:"conversationId"` // 会话ID
	Created        bool   `json:"created"`        // 本次请求是否新建了会话
}
