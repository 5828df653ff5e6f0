package router

import (
	"CommunityServer/apps/social/internal/middleware"
	v1 "CommunityServer/apps/social/internal/router/v1"
	"CommunityServer/config"
	"CommunityServer/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitRouter 初始化路由
// 各 Handler 通过依赖注入传入
func InitRouter(
	cfg config.RateLimitConfig,
	relationHandler *v1.RelationHandler,
	conversationHandler *v1.ConversationHandler,
	profileHandler *v1.ProfileHandler,
) *gin.Engine {
	r := gin.New()

	// 恢复中间件
	r.Use(middleware.GinRecovery())

	// 追踪中间件 (生成 trace_id)
	r.Use(util.TraceLogger())

	// 客户端 IP 中间件
	r.Use(middleware.ClientIPMiddleware())

	// 日志中间件
	r.Use(middleware.GinLogger())

	// Prometheus 监控中间件
	r.Use(middleware.PrometheusMiddleware())

	// 跨域中间件
	r.Use(middleware.CorsMiddleware())

	// IP 限流中间件
	r.Use(middleware.IPRateLimitMiddleware())

	// 健康检查（无需认证）
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Prometheus 指标暴露接口
	// Prometheus 会定时访问这个接口来拉取监控数据
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 访客可访问的接口（带 Token 则注入身份）
		public := api.Group("")
		public.Use(middleware.OptionalAuthMiddleware())
		{
			public.GET("/relation/status", relationHandler.GetRelationStatus)
			public.GET("/profile/card", profileHandler.GetProfileCard)
		}

		// 需要认证的接口
		auth := api.Group("")
		auth.Use(middleware.JWTAuthMiddleware())
		auth.Use(middleware.UserRateLimitMiddleware(cfg.Rate, cfg.Capacity))
		{
			auth.POST("/relation/toggle", relationHandler.ToggleRelation)
			auth.GET("/relation/requests/unread", relationHandler.GetUnreadRequestCount)
			auth.POST("/relation/requests/read", relationHandler.MarkRequestsRead)
			auth.POST("/conversation/direct", conversationHandler.OpenDirect)
		}
	}

	return r
}
