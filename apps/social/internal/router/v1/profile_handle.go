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

// ProfileHandler 资料卡处理器
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler 创建资料卡处理器
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfileCard 获取用户资料卡接口
// @Summary 获取用户资料卡
// @Description 获取目标用户资料卡，附带访问者视角的关系状态（访客可访问）
// @Tags 资料接口
// @Produce json
// @Param targetUuid query string true "目标用户UUID"
// @Success 200 {object} dto.ProfileCard
// @Router /api/v1/profile/card [get]
func (h *ProfileHandler) GetProfileCard(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.GetProfileCardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	viewerUUID, _ := middleware.GetUserUUID(c)

	// 2. 调用服务层处理业务逻辑
	card, err := h.profileService.GetProfileCard(ctx, viewerUUID, &req)
	if err != nil {
		if code := utils.ExtractErrorCode(err); consts.IsNonServerError(code) {
			result.Fail(c, nil, code)
			return
		}

		logger.Error(ctx, "获取资料卡服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, card)
}
