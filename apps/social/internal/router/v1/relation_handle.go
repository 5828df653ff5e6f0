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

// RelationHandler 关系处理器
type RelationHandler struct {
	relationService service.RelationService
}

// NewRelationHandler 创建关系处理器
func NewRelationHandler(relationService service.RelationService) *RelationHandler {
	return &RelationHandler{
		relationService: relationService,
	}
}

// GetRelationStatus 查询关系状态接口
// @Summary 查询关系状态
// @Description 查询当前用户（或访客）对目标用户的关系状态
// @Tags 关系接口
// @Accept json
// @Produce json
// @Param targetUuid query string true "目标用户UUID"
// @Success 200 {object} dto.GetRelationStatusResponse
// @Router /api/v1/relation/status [get]
func (h *RelationHandler) GetRelationStatus(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.GetRelationStatusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 访客没有 user_uuid，viewerUUID 为空串
	viewerUUID, _ := middleware.GetUserUUID(c)

	// 3. 调用服务层解析关系状态
	status, err := h.relationService.ResolveRelation(ctx, viewerUUID, req.TargetUUID)
	if err != nil {
		if code := utils.ExtractErrorCode(err); consts.IsNonServerError(code) {
			result.Fail(c, nil, code)
			return
		}

		logger.Error(ctx, "解析关系状态服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 4. 返回成功响应
	result.Success(c, &dto.GetRelationStatusResponse{
		TargetUUID: req.TargetUUID,
		Status:     string(status),
	})
}

// ToggleRelation 切换关系接口
// @Summary 切换关系
// @Description 对目标用户执行一次"关注按钮"切换（关注/申请/同意/取消）
// @Tags 关系接口
// @Accept json
// @Produce json
// @Param request body dto.ToggleRelationRequest true "切换关系请求"
// @Success 200 {object} dto.ToggleRelationResponse
// @Router /api/v1/relation/toggle [post]
func (h *RelationHandler) ToggleRelation(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.ToggleRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	viewerUUID, _ := middleware.GetUserUUID(c)

	// 2. 调用服务层处理业务逻辑（依赖注入）
	toggleResp, err := h.relationService.ToggleRelation(ctx, viewerUUID, &req)
	if err != nil {
		// 检查是否为业务错误
		if code := utils.ExtractErrorCode(err); consts.IsNonServerError(code) {
			// 业务逻辑失败（如目标用户不存在、对自己操作等）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "切换关系服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	middleware.ObserveRelationToggle(toggleResp.Status)

	// 3. 返回成功响应
	result.Success(c, toggleResp)
}

// GetUnreadRequestCount 获取未读申请角标接口
// @Summary 获取未读申请角标
// @Description 获取当前用户未读好友申请数量
// @Tags 关系接口
// @Produce json
// @Success 200 {object} dto.GetUnreadRequestCountResponse
// @Router /api/v1/relation/requests/unread [get]
func (h *RelationHandler) GetUnreadRequestCount(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	viewerUUID, _ := middleware.GetUserUUID(c)

	countResp, err := h.relationService.GetUnreadRequestCount(ctx, viewerUUID)
	if err != nil {
		if code := utils.ExtractErrorCode(err); consts.IsNonServerError(code) {
			result.Fail(c, nil, code)
			return
		}

		logger.Error(ctx, "获取未读申请角标服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, countResp)
}

// MarkRequestsRead 标记申请已读接口
// @Summary 标记申请已读
// @Description 清零当前用户的未读申请角标
// @Tags 关系接口
// @Produce json
// @Router /api/v1/relation/requests/read [post]
func (h *RelationHandler) MarkRequestsRead(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	viewerUUID, _ := middleware.GetUserUUID(c)

	if err := h.relationService.MarkRequestsRead(ctx, viewerUUID); err != nil {
		if code := utils.ExtractErrorCode(err); consts.IsNonServerError(code) {
			result.Fail(c, nil, code)
			return
		}

		logger.Error(ctx, "标记申请已读服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	result.Success(c, nil)
}
