package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"CommunityServer/apps/social/internal/middleware"
	"CommunityServer/apps/social/internal/repository"
	"CommunityServer/apps/social/internal/router"
	v1 "CommunityServer/apps/social/internal/router/v1"
	"CommunityServer/apps/social/internal/service"
	"CommunityServer/apps/social/internal/utils"
	"CommunityServer/apps/social/mq"
	"CommunityServer/config"
	"CommunityServer/pkg/async"
	pkgkafka "CommunityServer/pkg/kafka"
	"CommunityServer/pkg/logger"
	"CommunityServer/pkg/mysql"
	pkgredis "CommunityServer/pkg/redis"
	pkgsnowflake "CommunityServer/pkg/snowflake"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 加载配置（默认值 <- 配置文件 <- 环境变量）
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zl, err := logger.Build(cfg.Logger)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	logger.ReplaceGlobal(zl)
	defer func() {
		// Sync 在输出到 os.Stdout 时会返回错误，可以忽略
		_ = zl.Sync()
	}()

	logger.Info(ctx, "Social 服务初始化中...")

	// 3. 初始化MySQL
	db, err := mysql.Build(cfg.MySQL)
	if err != nil {
		log.Fatalf("初始化MySQL失败: %v", err)
	}
	mysql.ReplaceGlobal(db)
	logger.Info(ctx, "MySQL 初始化成功")

	// 4. 初始化 Redis
	redisClient, err := pkgredis.Build(cfg.Redis)
	if err != nil {
		// Redis 初始化失败不阻塞启动（角标、资料缓存、限流降级）
		logger.Warn(ctx, "Redis 初始化失败，将降级到 MySQL-Only 模式",
			logger.ErrorField("error", err),
		)
		redisClient = nil
	} else {
		pkgredis.ReplaceGlobal(redisClient)
		logger.Info(ctx, "Redis 初始化成功",
			logger.String("addr", cfg.Redis.Addr),
		)
	}

	// 5. 初始化 Kafka（仅在 Redis 可用时启动，重试队列只服务于 Redis 写补偿）
	var kafkaProducer *pkgkafka.Producer
	var redisConsumer *mq.RedisRetryConsumer
	if redisClient != nil {
		kafkaProducer = pkgkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.RedisRetryTopic)
		mq.SetGlobalProducer(kafkaProducer)
		logger.Info(ctx, "Kafka Producer 初始化成功",
			logger.String("topic", cfg.Kafka.RedisRetryTopic),
		)

		redisConsumer = mq.NewRedisRetryConsumer(cfg.Kafka, redisClient, kafkaProducer)

		// 启动消费者（在后台 goroutine 中运行）
		go func() {
			logger.Info(ctx, "Redis 重试消费者启动中",
				logger.String("topic", cfg.Kafka.RedisRetryTopic),
				logger.String("group_id", cfg.Kafka.ConsumerConfig.GroupID),
			)
			if err := redisConsumer.Start(ctx); err != nil {
				logger.Error(ctx, "Redis 重试消费者运行错误", logger.ErrorField("error", err))
			}
		}()

		// 确保程序退出时关闭 Kafka 连接
		defer func() {
			if kafkaProducer != nil {
				if err := kafkaProducer.Close(); err != nil {
					logger.Error(ctx, "关闭 Kafka Producer 失败", logger.ErrorField("error", err))
				}
			}
			if redisConsumer != nil {
				if err := redisConsumer.Close(); err != nil {
					logger.Error(ctx, "关闭 Redis 重试消费者失败", logger.ErrorField("error", err))
				}
			}
		}()
	}

	// 6. 初始化小组件
	node, err := pkgsnowflake.Build(cfg.Snowflake)
	if err != nil {
		log.Fatalf("初始化雪花节点失败: %v", err)
	}
	pkgsnowflake.ReplaceGlobal(node)

	if err := async.Init(cfg.Async); err != nil {
		log.Fatalf("初始化协程池失败: %v", err)
	}
	defer func() {
		_ = async.Release()
	}()

	utils.InitJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expire)
	middleware.InitRedisRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Capacity, redisClient)

	// 7. 组装依赖 - Repository 层
	followRepo := repository.NewFollowRepository(db)
	requestRepo := repository.NewRequestRepository(db, redisClient)
	conversationRepo := repository.NewConversationRepository(db)
	profileRepo := repository.NewProfileRepository(db, redisClient)

	// 8. 组装依赖 - Service 层
	relationService := service.NewRelationService(followRepo, requestRepo, profileRepo)
	conversationService := service.NewConversationService(conversationRepo)
	profileService := service.NewProfileService(profileRepo, relationService)

	// 9. 组装依赖 - Handler 层
	relationHandler := v1.NewRelationHandler(relationService)
	conversationHandler := v1.NewConversationHandler(conversationService)
	profileHandler := v1.NewProfileHandler(profileService)

	// 10. 初始化路由
	gin.SetMode(cfg.Server.Mode)
	r := router.InitRouter(cfg.RateLimit, relationHandler, conversationHandler, profileHandler)
	logger.Info(ctx, "路由初始化完成")

	srv := &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 最大请求头 1MB
	}

	// 11. 启动服务器（在 goroutine 中）
	go func() {
		logger.Info(ctx, "Social 服务器启动中",
			logger.String("address", cfg.Server.Addr),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "服务器启动失败", logger.ErrorField("error", err))
			os.Exit(1)
		}
	}()

	logger.Info(ctx, "Social 服务器启动成功，按 Ctrl+C 关闭")

	// 12. 优雅停机
	quit := make(chan os.Signal, 1)
	// 监听中断信号：Ctrl+C (SIGINT) 和 kill 命令 (SIGTERM)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info(ctx, "收到关闭信号，开始优雅停机...",
		logger.String("signal", sig.String()),
	)

	// 13. 设置超时时间，等待正在处理的请求完成
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "服务器强制关闭", logger.ErrorField("error", err))
		os.Exit(1)
	}

	logger.Info(ctx, "Social 服务器已优雅退出")
}
