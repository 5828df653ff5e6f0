package utils

import (
	"errors"
	"strconv"

	"CommunityServer/consts"
)

// BizError 业务错误，携带业务错误码在服务层和 Handler 层之间传递
type BizError struct {
	Code int32
}

// Error 实现 error 接口，内容为业务码字符串
func (e *BizError) Error() string {
	return strconv.Itoa(int(e.Code))
}

// NewBizError 创建业务错误
func NewBizError(code int32) *BizError {
	return &BizError{Code: code}
}

// ExtractErrorCode 提取业务错误码
func ExtractErrorCode(err error) int32 {
	if err == nil {
		return 0
	}

	var bizErr *BizError
	if errors.As(err, &bizErr) {
		return bizErr.Code
	}

	return consts.CodeInternalError
}
