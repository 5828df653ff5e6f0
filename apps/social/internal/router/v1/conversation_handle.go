package v1

import (
	"CommunityServer/apps/social/internal/dto"
	"CommunityServer/apps/social/internal/middleware"
	"CommunityServer/apps/social/internal/service"
	"CommunityServer/apps/social/internal/utils"
	"CommunityServer/consts"
	"CommunityServer/pkg/logger"
	"CommunityServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 会话处理器
type ConversationHandler struct {
	conversationService service.ConversationService
}

// NewConversationHandler 创建会话处理器
func NewConversationHandler(conversationService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
	}
}

// OpenDirect 获取/创建单聊会话接口
// @Summary 获取/创建单聊会话
// @Description 获取与目标用户的单聊会话，不存在则创建；会话服务不可用时返回空会话ID，客户端退回收件箱
// @Tags 会话接口
// @Accept json
// @Produce json
// @Param request body dto.CreateDirectConversationRequest true "获取/创建单聊会话请求"
// @Success 200 {object} dto.CreateDirectConversationResponse
// @Router /api/v1/conversation/direct [post]
func (h *ConversationHandler) OpenDirect(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.CreateDirectConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	viewerUUID, _ := middleware.GetUserUUID(c)

	// 2. 调用服务层处理业务逻辑
	convoResp, err := h.conversationService.OpenDirect(ctx, viewerUUID, &req)
	if err != nil {
		code := utils.ExtractErrorCode(err)
		if code == consts.CodeConversationUnavailable {
			// 降级：带空会话ID返回业务码，客户端据此退回收件箱列表
			result.Fail(c, &dto.CreateDirectConversationResponse{}, code)
			return
		}
		if consts.IsNonServerError(code) {
			result.Fail(c, nil, code)
			return
		}

		logger.Error(ctx, "获取单聊会话服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, convoResp)
}
