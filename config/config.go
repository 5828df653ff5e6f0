package config

import "time"

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`                       // 监听地址，如 :8080
	Mode            string        `json:"mode" yaml:"mode"`                       // gin 运行模式 debug/release/test
	ReadTimeout     time.Duration `json:"readTimeout" yaml:"readTimeout"`         // 读超时
	WriteTimeout    time.Duration `json:"writeTimeout" yaml:"writeTimeout"`       // 写超时
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"` // 优雅退出等待时间
}

// DefaultServerConfig 返回本地开发的默认配置。
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		Mode:            "debug",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// LoggerConfig 日志配置。
type LoggerConfig struct {
	Level            string   `json:"level" yaml:"level"`                       // debug/info/warn/error
	Encoding         string   `json:"encoding" yaml:"encoding"`                 // json/console
	EnableColor      bool     `json:"enableColor" yaml:"enableColor"`           // console 编码下是否彩色等级
	Development      bool     `json:"development" yaml:"development"`           // 开发模式（error 级别带堆栈）
	OutputPaths      []string `json:"outputPaths" yaml:"outputPaths"`           // 普通日志输出路径
	ErrorOutputPaths []string `json:"errorOutputPaths" yaml:"errorOutputPaths"` // 错误日志输出路径
}

// DefaultLoggerConfig 返回本地开发的默认配置。
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:       "info",
		Encoding:    "json",
		Development: false,
	}
}

// MySQLConfig MySQL 连接配置。
// Replicas 非空时启用读写分离（写主读从）。
type MySQLConfig struct {
	DSN             string        `json:"dsn" yaml:"dsn"`                         // 主库 DSN
	Replicas        []string      `json:"replicas" yaml:"replicas"`               // 从库 DSN 列表
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`       // 最大连接数
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`       // 最大空闲连接数
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"` // 连接最大存活时间
	LogLevel        string        `json:"logLevel" yaml:"logLevel"`               // gorm 日志级别 silent/error/warn/info
}

// DefaultMySQLConfig 返回本地开发的默认配置。
func DefaultMySQLConfig() MySQLConfig {
	return MySQLConfig{
		DSN:             "root:root@tcp(127.0.0.1:3306)/community?charset=utf8mb4&parseTime=True&loc=Local",
		MaxOpenConns:    100,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		LogLevel:        "warn",
	}
}

// RedisConfig Redis 连接配置。
type RedisConfig struct {
	Addr         string        `json:"addr" yaml:"addr"`                 // 地址 host:port
	Password     string        `json:"password" yaml:"password"`         // 密码
	DB           int           `json:"db" yaml:"db"`                     // 库号
	PoolSize     int           `json:"poolSize" yaml:"poolSize"`         // 连接池大小
	DialTimeout  time.Duration `json:"dialTimeout" yaml:"dialTimeout"`   // 连接超时
	ReadTimeout  time.Duration `json:"readTimeout" yaml:"readTimeout"`   // 读超时
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout"` // 写超时
}

// DefaultRedisConfig 返回本地开发的默认配置。
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "127.0.0.1:6379",
		DB:           0,
		PoolSize:     64,
		DialTimeout:  time.Second,
		ReadTimeout:  200 * time.Millisecond,
		WriteTimeout: 200 * time.Millisecond,
	}
}

// KafkaConfig Kafka 配置（仅用于 Redis 重试队列）。
type KafkaConfig struct {
	Brokers         []string            `json:"brokers" yaml:"brokers"`                 // broker 地址列表
	RedisRetryTopic string              `json:"redisRetryTopic" yaml:"redisRetryTopic"` // Redis 重试任务主题
	ConsumerConfig  KafkaConsumerConfig `json:"consumer" yaml:"consumer"`               // 消费者配置
}

// KafkaConsumerConfig Kafka 消费者配置。
type KafkaConsumerConfig struct {
	GroupID      string        `json:"groupId" yaml:"groupId"`           // 消费组
	MinBytes     int           `json:"minBytes" yaml:"minBytes"`         // 单次拉取最小字节数
	MaxBytes     int           `json:"maxBytes" yaml:"maxBytes"`         // 单次拉取最大字节数
	MaxWait      time.Duration `json:"maxWait" yaml:"maxWait"`           // 拉取等待时间
	RetryBackoff time.Duration `json:"retryBackoff" yaml:"retryBackoff"` // 任务重试间隔
}

// DefaultKafkaConfig 返回本地开发的默认配置。
func DefaultKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Brokers:         []string{"127.0.0.1:9092"},
		RedisRetryTopic: "social.redis.retry",
		ConsumerConfig: KafkaConsumerConfig{
			GroupID:      "social-redis-retry",
			MinBytes:     1,
			MaxBytes:     10 << 20,
			MaxWait:      time.Second,
			RetryBackoff: 2 * time.Second,
		},
	}
}

// AsyncConfig 协程池配置。
// 说明：只用于异步任务执行（缓存维护等旁路工作），不负责定时/调度。
type AsyncConfig struct {
	PoolSize         int           `json:"poolSize" yaml:"poolSize"`                 // 协程池容量
	MaxBlockingTasks int           `json:"maxBlockingTasks" yaml:"maxBlockingTasks"` // 最大阻塞任务数（0 表示不限制）
	ExpiryDuration   time.Duration `json:"expiryDuration" yaml:"expiryDuration"`     // 空闲 worker 过期时间
	Nonblocking      bool          `json:"nonblocking" yaml:"nonblocking"`           // 是否非阻塞提交
	ReleaseTimeout   time.Duration `json:"releaseTimeout" yaml:"releaseTimeout"`     // 优雅释放等待时间
}

// DefaultAsyncConfig 返回本地开发的默认配置。
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		PoolSize:         128,
		MaxBlockingTasks: 0,
		ExpiryDuration:   10 * time.Second,
		Nonblocking:      false,
		ReleaseTimeout:   5 * time.Second,
	}
}

// JWTConfig 认证 Token 配置。
// 注意：本服务只校验 Token，签发在认证子系统完成，密钥需与之一致。
type JWTConfig struct {
	Secret string        `json:"secret" yaml:"secret"` // HMAC 密钥
	Issuer string        `json:"issuer" yaml:"issuer"` // 签发方标识
	Expire time.Duration `json:"expire" yaml:"expire"` // Token 有效期
}

// DefaultJWTConfig 返回本地开发的默认配置。
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		Secret: "dev-only-secret",
		Issuer: "community",
		Expire: 24 * time.Hour,
	}
}

// RateLimitConfig 限流配置（Redis 令牌桶，Redis 不可用时退化为本地限流）。
type RateLimitConfig struct {
	Capacity int     `json:"capacity" yaml:"capacity"` // 桶容量
	Rate     float64 `json:"rate" yaml:"rate"`         // 每秒补充令牌数
}

// DefaultRateLimitConfig 返回本地开发的默认配置。
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Capacity: 20,
		Rate:     10,
	}
}

// SnowflakeConfig 雪花 ID 节点配置。
type SnowflakeConfig struct {
	NodeID int64 `json:"nodeId" yaml:"nodeId"` // 节点编号（多实例部署时需各不相同）
}

// DefaultSnowflakeConfig 返回本地开发的默认配置。
func DefaultSnowflakeConfig() SnowflakeConfig {
	return SnowflakeConfig{NodeID: 1}
}

// Config 进程级配置聚合。
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Logger    LoggerConfig    `json:"logger" yaml:"logger"`
	MySQL     MySQLConfig     `json:"mysql" yaml:"mysql"`
	Redis     RedisConfig     `json:"redis" yaml:"redis"`
	Kafka     KafkaConfig     `json:"kafka" yaml:"kafka"`
	Async     AsyncConfig     `json:"async" yaml:"async"`
	JWT       JWTConfig       `json:"jwt" yaml:"jwt"`
	RateLimit RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`
	Snowflake SnowflakeConfig `json:"snowflake" yaml:"snowflake"`
}

// Default 返回全部模块的默认配置聚合。
func Default() Config {
	return Config{
		Server:    DefaultServerConfig(),
		Logger:    DefaultLoggerConfig(),
		MySQL:     DefaultMySQLConfig(),
		Redis:     DefaultRedisConfig(),
		Kafka:     DefaultKafkaConfig(),
		Async:     DefaultAsyncConfig(),
		JWT:       DefaultJWTConfig(),
		RateLimit: DefaultRateLimitConfig(),
		Snowflake: DefaultSnowflakeConfig(),
	}
}
