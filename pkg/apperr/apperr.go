package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别：核心层对外暴露的稳定错误分类，
// 由 Handler 层映射为 HTTP 状态码，存储层细节不外泄
type Kind int

const (
	// KindNotFound 引用的实体不存在
	KindNotFound Kind = iota + 1
	// KindConflict 操作违反唯一性不变量
	KindConflict
	// KindInvalidInput 调用方数据未通过领域校验
	KindInvalidInput
	// KindExpiredToken 令牌已过有效期
	KindExpiredToken
)

// Error 业务错误：机器可读的 code + 人类可读的 message
type Error struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is 支持 errors.Is 按 code 比较（哨兵错误用法）
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NotFound 构造 NotFound 类错误
func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// Conflict 构造 Conflict 类错误
func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// InvalidInput 构造 InvalidInput 类错误
func InvalidInput(code, message string) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Message: message}
}

// ExpiredToken 构造 ExpiredToken 类错误
func ExpiredToken(code, message string) *Error {
	return &Error{Kind: KindExpiredToken, Code: code, Message: message}
}

// KindOf 返回错误的类别；非业务错误返回 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
