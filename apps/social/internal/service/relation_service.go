package service

import (
	"context"
	"errors"
	"time"

	"CommunityServer/apps/social/internal/dto"
	"CommunityServer/apps/social/internal/repository"
	"CommunityServer/apps/social/internal/utils"
	"CommunityServer/consts"
	"CommunityServer/pkg/logger"
)

// relationServiceImpl 关系服务实现
type relationServiceImpl struct {
	followRepo  repository.IFollowRepository
	requestRepo repository.IRequestRepository
	profileRepo repository.IProfileRepository
}

// NewRelationService 创建关系服务实例
func NewRelationService(
	followRepo repository.IFollowRepository,
	requestRepo repository.IRequestRepository,
	profileRepo repository.IProfileRepository,
) RelationService {
	return &relationServiceImpl{
		followRepo:  followRepo,
		requestRepo: requestRepo,
		profileRepo: profileRepo,
	}
}

// classifyRelation 依据各关系事实位，按 consts.RelationPrecedence 的顺序判定最终状态。
// 纯函数，不做任何 IO；判定规则只有这一份，没有隐式 if/else 兜底。
func classifyRelation(flags map[consts.RelationStatus]bool) consts.RelationStatus {
	for _, status := range consts.RelationPrecedence {
		if flags[status] {
			return status
		}
	}
	return consts.RelationNone
}

// ResolveRelation 解析 viewer 对 target 的关系状态。
// 业务流程：
//  1. 本人 / 访客直接短路，不查库
//  2. 依次查关注边、已发申请、已收申请三个事实位
//  3. 交给 classifyRelation 按优先级判定
//
// 关注表编码探测失败（候选列组合全部不匹配）按"未关注"降级，不阻塞整个判定。
func (s *relationServiceImpl) ResolveRelation(ctx context.Context, viewerUUID, targetUUID string) (consts.RelationStatus, error) {
	flags := map[consts.RelationStatus]bool{
		consts.RelationGuest: viewerUUID == "",
		consts.RelationSelf:  viewerUUID != "" && viewerUUID == targetUUID,
	}

	// 本人 / 访客不需要查库
	if flags[consts.RelationGuest] || flags[consts.RelationSelf] {
		return classifyRelation(flags), nil
	}

	// 1. 关注边
	following, err := s.followRepo.HasFollow(ctx, viewerUUID, targetUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNoLiveEncoding) {
			// 关注表列命名与所有候选组合都不匹配，按未关注降级
			logger.Warn(ctx, "关注表编码探测失败，按未关注处理",
				logger.String("viewer_uuid", utils.MaskUUID(viewerUUID)),
			)
		} else {
			logger.Error(ctx, "查询关注边失败",
				logger.ErrorField("error", err),
			)
			return "", err
		}
	}
	flags[consts.RelationFollowing] = following

	// 2. 我发给对方的待处理申请
	sent, err := s.requestRepo.HasPending(ctx, viewerUUID, targetUUID)
	if err != nil {
		logger.Error(ctx, "查询已发申请失败",
			logger.ErrorField("error", err),
		)
		return "", err
	}
	flags[consts.RelationPendingSent] = sent

	// 3. 对方发给我的待处理申请
	received, err := s.requestRepo.HasPending(ctx, targetUUID, viewerUUID)
	if err != nil {
		logger.Error(ctx, "查询已收申请失败",
			logger.ErrorField("error", err),
		)
		return "", err
	}
	flags[consts.RelationPendingReceived] = received

	return classifyRelation(flags), nil
}

// ToggleRelation 对当前关系状态执行一次"关注按钮"切换。
// 状态机的输入是客户端传来的 CurrentStatus，不在服务端重新解析：
// 响应丢失后用户拿着同一个过期状态再点一次，重放的是同一个迁移
// （删已删的行、对已有 pending 行 upsert 都是空操作），而不是基于
// 服务端新状态执行下一个迁移把刚才的动作又撤销掉。
//
// 状态机：
//   - following        -> 删除关注边            -> none
//   - pending_sent     -> 撤回申请              -> none
//   - pending_received -> 同意申请并建立关注边   -> following
//   - none             -> 发出申请              -> pending_sent
//
// 申请写入失败时退化为直接关注（目标用户开放关注的旧数据形态），
// 同意申请时若 pending 行已被对方处理掉，重新解析并返回当前状态而不报错。
func (s *relationServiceImpl) ToggleRelation(ctx context.Context, viewerUUID string, req *dto.ToggleRelationRequest) (*dto.ToggleRelationResponse, error) {
	startTime := time.Now()

	// 1. 主体校验
	if viewerUUID == "" {
		return nil, utils.NewBizError(consts.CodeRelationGuest)
	}
	if viewerUUID == req.TargetUUID {
		return nil, utils.NewBizError(consts.CodeRelationSelf)
	}

	// 2. 目标用户必须存在
	profile, err := s.profileRepo.GetByUUID(ctx, req.TargetUUID)
	if err != nil {
		logger.Error(ctx, "查询目标用户失败",
			logger.ErrorField("error", err),
		)
		return nil, err
	}
	if profile == nil {
		return nil, utils.NewBizError(consts.CodeUserNotFound)
	}

	// 3. 按状态机执行切换（以客户端视角的状态为输入）
	current := consts.RelationStatus(req.CurrentStatus)
	var next consts.RelationStatus
	switch current {
	case consts.RelationFollowing:
		if err := s.followRepo.DeleteFollow(ctx, viewerUUID, req.TargetUUID); err != nil {
			logger.Error(ctx, "删除关注边失败",
				logger.ErrorField("error", err),
			)
			return nil, err
		}
		next = consts.RelationNone

	case consts.RelationPendingSent:
		if err := s.requestRepo.DeletePending(ctx, viewerUUID, req.TargetUUID); err != nil {
			logger.Error(ctx, "撤回申请失败",
				logger.ErrorField("error", err),
			)
			return nil, err
		}
		next = consts.RelationNone

	case consts.RelationPendingReceived:
		next, err = s.acceptReceived(ctx, viewerUUID, req.TargetUUID)
		if err != nil {
			return nil, err
		}

	case consts.RelationNone:
		next, err = s.sendRequest(ctx, viewerUUID, req.TargetUUID)
		if err != nil {
			return nil, err
		}

	default:
		// Handler 层的 oneof 校验兜不住直连调用方，这里再拦一次
		return nil, utils.NewBizError(consts.CodeParamError)
	}

	logger.Info(ctx, "切换关系状态成功",
		logger.String("viewer_uuid", utils.MaskUUID(viewerUUID)),
		logger.String("target_uuid", utils.MaskUUID(req.TargetUUID)),
		logger.String("from", string(current)),
		logger.String("to", string(next)),
		logger.Duration("duration", time.Since(startTime)),
	)

	return &dto.ToggleRelationResponse{
		TargetUUID: req.TargetUUID,
		Status:     string(next),
	}, nil
}

// acceptReceived 同意对方的申请并建立 viewer -> target 的关注边。
func (s *relationServiceImpl) acceptReceived(ctx context.Context, viewerUUID, targetUUID string) (consts.RelationStatus, error) {
	accepted, err := s.requestRepo.Accept(ctx, targetUUID, viewerUUID)
	if err != nil {
		logger.Error(ctx, "同意申请失败",
			logger.ErrorField("error", err),
		)
		return "", err
	}
	if !accepted {
		// pending 行已被撤回或处理，按当前真实状态回应，不报错
		return s.ResolveRelation(ctx, viewerUUID, targetUUID)
	}

	if err := s.followRepo.CreateFollow(ctx, viewerUUID, targetUUID); err != nil {
		logger.Error(ctx, "同意申请后建立关注边失败",
			logger.ErrorField("error", err),
		)
		return "", err
	}

	return consts.RelationFollowing, nil
}

// sendRequest 发出申请；写申请失败时退化为直接关注。
func (s *relationServiceImpl) sendRequest(ctx context.Context, viewerUUID, targetUUID string) (consts.RelationStatus, error) {
	_, err := s.requestRepo.UpsertPending(ctx, viewerUUID, targetUUID)
	if err == nil {
		return consts.RelationPendingSent, nil
	}

	// 申请表写入失败（部分存量库没有 friend_requests 表），退化为直接关注
	logger.Warn(ctx, "写入申请失败，退化为直接关注",
		logger.ErrorField("error", err),
	)
	if err := s.followRepo.CreateFollow(ctx, viewerUUID, targetUUID); err != nil {
		logger.Error(ctx, "直接关注失败",
			logger.ErrorField("error", err),
		)
		return "", err
	}

	return consts.RelationFollowing, nil
}

// GetUnreadRequestCount 获取未读申请角标。
// 角标只是提示性数据，Redis 故障时降级为 0，不向上抛错。
func (s *relationServiceImpl) GetUnreadRequestCount(ctx context.Context, viewerUUID string) (*dto.GetUnreadRequestCountResponse, error) {
	if viewerUUID == "" {
		return nil, utils.NewBizError(consts.CodeRelationGuest)
	}

	count, err := s.requestRepo.UnreadCount(ctx, viewerUUID)
	if err != nil {
		logger.Warn(ctx, "读取未读申请角标失败，降级为 0",
			logger.ErrorField("error", err),
		)
		count = 0
	}

	return &dto.GetUnreadRequestCountResponse{Count: count}, nil
}

// MarkRequestsRead 清零未读申请角标。
func (s *relationServiceImpl) MarkRequestsRead(ctx context.Context, viewerUUID string) error {
	if viewerUUID == "" {
		return utils.NewBizError(consts.CodeRelationGuest)
	}
	return s.requestRepo.MarkRead(ctx, viewerUUID)
}
