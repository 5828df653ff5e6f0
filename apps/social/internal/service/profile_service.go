package service

import (
	"context"

	"CommunityServer/apps/social/internal/dto"
	"CommunityServer/apps/social/internal/repository"
	"CommunityServer/apps/social/internal/utils"
	"CommunityServer/consts"
	"CommunityServer/pkg/logger"
)

// profileServiceImpl 资料卡服务实现
type profileServiceImpl struct {
	profileRepo     repository.IProfileRepository
	relationService RelationService
}

// NewProfileService 创建资料卡服务实例
func NewProfileService(profileRepo repository.IProfileRepository, relationService RelationService) ProfileService {
	return &profileServiceImpl{
		profileRepo:     profileRepo,
		relationService: relationService,
	}
}

// GetProfileCard 获取目标用户资料卡。
// 访客也可以看资料卡，此时关系状态为 guest。
func (s *profileServiceImpl) GetProfileCard(ctx context.Context, viewerUUID string, req *dto.GetProfileCardRequest) (*dto.ProfileCard, error) {
	// 1. 查资料
	profile, err := s.profileRepo.GetByUUID(ctx, req.TargetUUID)
	if err != nil {
		logger.Error(ctx, "查询用户资料失败",
			logger.ErrorField("error", err),
		)
		return nil, err
	}
	if profile == nil {
		return nil, utils.NewBizError(consts.CodeUserNotFound)
	}

	// 2. 解析访问者视角的关系状态
	status, err := s.relationService.ResolveRelation(ctx, viewerUUID, req.TargetUUID)
	if err != nil {
		// 资料本体已拿到，关系状态解析失败时降级为 none，不拖垮整张资料卡
		logger.Warn(ctx, "解析关系状态失败，资料卡降级为 none",
			logger.ErrorField("error", err),
		)
		status = consts.RelationNone
	}

	return &dto.ProfileCard{
		UUID:           profile.ID,
		Username:       profile.Username,
		FullName:       profile.FullName,
		AvatarURL:      profile.AvatarURL,
		City:           profile.City,
		State:          profile.State,
		Bio:            profile.Bio,
		RelationStatus: string(status),
	}, nil
}
