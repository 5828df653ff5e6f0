package repository

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL 服务端错误码（go-sql-driver 透出的 Number）。
const (
	mysqlErrBadField    = 1054 // Unknown column
	mysqlErrDuplicate   = 1062 // Duplicate entry
	mysqlErrNoSuchTable = 1146 // Table doesn't exist
	mysqlErrNoProcedure = 1305 // PROCEDURE does not exist
)

// isSchemaMismatch 判断错误是否为"这个物理形状不存在"。
// 只认未知列/缺表两类；其他错误（权限、断连）一律不算，由调用方中止探测。
// 字符串兜底用于测试方言 sqlite。
func isSchemaMismatch(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrBadField || myErr.Number == mysqlErrNoSuchTable
	}
	msg := err.Error()
	return strings.Contains(msg, "Unknown column") ||
		strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "has no column named") ||
		strings.Contains(msg, "no such table")
}

// isProcedureMissing 判断错误是否为"存储过程不存在"。
func isProcedureMissing(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrNoProcedure
	}
	// sqlite 没有存储过程，CALL 直接报语法错
	msg := err.Error()
	return strings.Contains(msg, "PROCEDURE") || strings.Contains(msg, "syntax error")
}

// isDuplicateKey 判断错误是否为唯一键冲突。
// gorm 的 TranslateError 覆盖了大部分路径，raw Exec 需要自己看驱动错误。
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrDuplicate
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isRedisWrongType(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "WRONGTYPE")
}

// getRandomExpireTime 生成带随机抖动的过期时间
// baseExpire: 基础过期时间
// 返回: 基础过期时间 ± 10% 的随机时间
func getRandomExpireTime(baseExpire time.Duration) time.Duration {
	// 计算随机抖动范围（±10%）
	jitterRange := float64(baseExpire) * 0.1
	jitter := time.Duration(rand.Float64()*float64(jitterRange)*2 - float64(jitterRange))

	return baseExpire + jitter
}

// getRandomBool 生成随机布尔值
// probability: 概率
// 返回: 概率为probability的布尔值
func getRandomBool(probability float64) bool {
	return rand.Float64() < probability
}
