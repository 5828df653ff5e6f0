package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"CommunityServer/apps/social/internal/dto"
	"CommunityServer/apps/social/internal/repository"
	"CommunityServer/apps/social/internal/utils"
	"CommunityServer/consts"
	"CommunityServer/pkg/logger"

	"github.com/sony/gobreaker"
)

// conversationServiceImpl 会话服务实现
type conversationServiceImpl struct {
	convoRepo repository.IConversationRepository
	breaker   *gobreaker.CircuitBreaker

	// procMissing 存储过程未部署的永久标记。
	// 触发过一次 1305 后，本进程生命周期内不再走原子路径。
	procMissing atomic.Bool
}

// NewConversationService 创建会话服务实例
func NewConversationService(convoRepo repository.IConversationRepository) ConversationService {
	// 原子路径（存储过程）的熔断器：存储过程在主库上执行，
	// 连续失败时熔断一段时间，期间直接走两步降级路径
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "direct-conversation-atomic",
		MaxRequests: 3,                // 半开状态下最多允许 3 个请求尝试
		Interval:    15 * time.Second, // 清除计数的时间间隔
		Timeout:     45 * time.Second, // 熔断器开启后多久尝试进入半开状态
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 失败率超过 50% 且请求数达到 5 次时触发熔断
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "熔断器状态变化",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})

	return &conversationServiceImpl{
		convoRepo: convoRepo,
		breaker:   breaker,
	}
}

// OpenDirect 获取/创建与目标用户的单聊会话。
// 业务流程：
//  1. 优先走存储过程原子路径（取回或创建一步完成，无竞态窗口）
//  2. 存储过程未部署 / 熔断期间，降级为两步：查共同单聊会话，查不到再创建
//  3. 两条路径都失败时返回会话暂不可用，客户端退回收件箱列表
func (s *conversationServiceImpl) OpenDirect(ctx context.Context, viewerUUID string, req *dto.CreateDirectConversationRequest) (*dto.CreateDirectConversationResponse, error) {
	startTime := time.Now()

	if viewerUUID == "" {
		return nil, utils.NewBizError(consts.CodeRelationGuest)
	}
	if viewerUUID == req.TargetUUID {
		return nil, utils.NewBizError(consts.CodeRelationSelf)
	}

	// 1. 原子路径
	if !s.procMissing.Load() {
		conversationID, err := s.openAtomic(ctx, viewerUUID, req.TargetUUID)
		if err == nil && conversationID != "" {
			logger.Info(ctx, "单聊会话就绪（原子路径）",
				logger.String("conversation_id", conversationID),
				logger.Duration("duration", time.Since(startTime)),
			)
			return &dto.CreateDirectConversationResponse{ConversationID: conversationID}, nil
		}
		// 失败则继续走降级路径，错误已在 openAtomic 中记录
	}

	// 2. 降级路径：先查共同会话
	conversationID, err := s.convoRepo.FindSharedDirect(ctx, viewerUUID, req.TargetUUID)
	if err != nil {
		logger.Error(ctx, "查找共同单聊会话失败",
			logger.ErrorField("error", err),
		)
		return nil, utils.NewBizError(consts.CodeConversationUnavailable)
	}
	if conversationID != "" {
		logger.Info(ctx, "单聊会话就绪（命中既有会话）",
			logger.String("conversation_id", conversationID),
			logger.Duration("duration", time.Since(startTime)),
		)
		return &dto.CreateDirectConversationResponse{ConversationID: conversationID}, nil
	}

	// 3. 没有既有会话，创建新会话
	conversationID, err = s.convoRepo.CreateDirect(ctx, viewerUUID, req.TargetUUID)
	if err != nil {
		logger.Error(ctx, "创建单聊会话失败",
			logger.ErrorField("error", err),
		)
		return nil, utils.NewBizError(consts.CodeConversationUnavailable)
	}

	logger.Info(ctx, "单聊会话就绪（新建）",
		logger.String("conversation_id", conversationID),
		logger.Duration("duration", time.Since(startTime)),
	)
	return &dto.CreateDirectConversationResponse{
		ConversationID: conversationID,
		Created:        true,
	}, nil
}

// openAtomic 经熔断器调用存储过程路径。
// 返回错误时调用方应走降级路径；存储过程未部署会置永久跳过标记。
func (s *conversationServiceImpl) openAtomic(ctx context.Context, viewerUUID, targetUUID string) (string, error) {
	conversationID, err := s.breaker.Execute(func() (interface{}, error) {
		return s.convoRepo.CreateDirectAtomic(ctx, viewerUUID, targetUUID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrProcedureMissing) {
			// 存储过程没部署不是瞬时故障，本进程内永久走降级路径，
			// 也不计入熔断统计之外的重试
			s.procMissing.Store(true)
			logger.Warn(ctx, "单聊会话存储过程未部署，永久切换到两步降级路径")
			return "", err
		}
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			logger.Warn(ctx, "原子路径熔断中，走两步降级路径")
			return "", err
		}
		logger.Error(ctx, "存储过程创建单聊会话失败",
			logger.ErrorField("error", err),
		)
		return "", err
	}

	id, _ := conversationID.(string)
	return id, nil
}
