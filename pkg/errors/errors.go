package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// Kind 业务错误分类，决定对外的 HTTP 状态
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidTransition
	KindInvalidArgument
	KindInvalidCredentials
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error 使 Kind 本身可作为 errors.Is 的匹配目标
func (k Kind) Error() string { return k.String() }

// AppError 带业务码与可读消息的类型化错误
type AppError struct {
	Kind    Kind
	Code    int
	Message string
}

// New 创建业务错误
func New(kind Kind, code int, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func (e *AppError) Error() string { return e.Message }

// Is 同一实例或同一 Kind 均视为匹配
func (e *AppError) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *AppError:
		return e == t
	}
	return false
}

// As 提取错误链中的 *AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf 返回错误分类，非业务错误视为 KindInternal
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
