package consts

// RelationStatus 观察者与目标用户之间的关系状态（派生值，每次解析时重新计算，不落库）。
type RelationStatus string

const (
	RelationSelf            RelationStatus = "self"             // 观察者即目标本人
	RelationGuest           RelationStatus = "guest"            // 观察者未登录
	RelationNone            RelationStatus = "none"             // 无任何关系
	RelationPendingSent     RelationStatus = "pending_sent"     // 已发出好友申请，等待对方处理
	RelationPendingReceived RelationStatus = "pending_received" // 收到对方好友申请，等待自己处理
	RelationFollowing       RelationStatus = "following"        // 已关注对方
)

// RelationPrecedence 关系状态的判定优先级（高优先级在前）。
// 判定函数按此顺序短路，测试也按此顺序断言，避免隐式 if/else 兜底。
var RelationPrecedence = []RelationStatus{
	RelationSelf,
	RelationGuest,
	RelationFollowing,
	RelationPendingSent,
	RelationPendingReceived,
	RelationNone,
}

// FriendRequest 状态枚举。
// 没有"已拒绝"的持久化状态：拒绝即删除 pending 行。
const (
	RequestStatusPending  int8 = 0 // 待处理
	RequestStatusAccepted int8 = 1 // 已同意
)

// 通用错误码
const (
	CodeSuccess = 0 // 成功
)

// 客户端错误 (1xxxx)
const (
	CodeParamError       = 10001 // 参数验证失败
	CodeBodyError        = 10002 // 请求体格式错误
	CodeResourceNotFound = 10003 // 资源不存在
	CodeTooManyRequests  = 10005 // 请求过于频繁
)

// 认证错误 (2xxxx)
const (
	CodeUnauthorized = 20001 // 未认证
	CodeInvalidToken = 20002 // Token 无效
	CodeTokenExpired = 20003 // Token 已过期
)

// 用户模块错误 (11xxx)
const (
	CodeUserNotFound = 11001 // 用户不存在
)

// 关系模块错误 (12xxx)
const (
	CodeRelationSelf   = 12001 // 不能对自己操作关系
	CodeRelationGuest  = 12002 // 未登录不能操作关系
	CodeStatusConflict = 12003 // 关系状态已变化，请刷新
)

// 会话模块错误 (13xxx)
const (
	CodeConversationUnavailable = 13001 // 会话服务暂不可用（客户端退化到收件箱）
)

// 服务端错误 (3xxxx)
const (
	CodeInternalError      = 30001 // 服务器内部错误
	CodeServiceUnavailable = 30002 // 服务暂不可用
)

// 错误消息映射
var CodeMessage = map[int32]string{
	CodeSuccess: "success",

	// 客户端错误
	CodeParamError:       "参数验证失败",
	CodeBodyError:        "请求体格式错误",
	CodeResourceNotFound: "资源不存在",
	CodeTooManyRequests:  "请求过于频繁",

	// 认证错误
	CodeUnauthorized: "未认证",
	CodeInvalidToken: "Token 无效",
	CodeTokenExpired: "Token 已过期",

	// 用户模块
	CodeUserNotFound: "用户不存在",

	// 关系模块
	CodeRelationSelf:   "不能对自己操作关系",
	CodeRelationGuest:  "请先登录",
	CodeStatusConflict: "关系状态已变化，请刷新后重试",

	// 会话模块
	CodeConversationUnavailable: "会话服务暂不可用",

	// 服务端错误
	CodeInternalError:      "服务器内部错误",
	CodeServiceUnavailable: "服务暂不可用",
}

// GetMessage 根据错误码获取错误消息
func GetMessage(code int32) string {
	if msg, ok := CodeMessage[code]; ok {
		return msg
	}
	return "未知错误"
}

// IsNonServerError 判断是否为业务错误（非 3xxxx 服务端错误）。
// 业务错误直接返回给客户端，服务端错误打日志后统一返回内部错误。
func IsNonServerError(code int32) bool {
	return code > 0 && code < CodeInternalError
}
