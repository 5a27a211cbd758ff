// Package auth 定义请求主体（Principal）及其在 context 中的传递方式。
package auth

import (
	"context"
	"fmt"
)

// Role 主体角色，封闭枚举
type Role int

const (
	RoleUnknown Role = iota
	RoleHR
	RoleEmployee
)

// String 角色在 Token 与 JSON 中的文本形式
func (r Role) String() string {
	switch r {
	case RoleHR:
		return "HR"
	case RoleEmployee:
		return "EMPLOYEE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText 以文本形式序列化
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseRole 解析角色文本；未知角色返回错误
func ParseRole(s string) (Role, error) {
	switch s {
	case "HR":
		return RoleHR, nil
	case "EMPLOYEE":
		return RoleEmployee, nil
	default:
		return RoleUnknown, fmt.Errorf("未知角色 %q", s)
	}
}

// Principal 已认证的请求主体
type Principal struct {
	UserID  string
	Subject string // 登录邮箱
	Role    Role
}

type principalKey struct{}

// WithPrincipal 将主体绑定到 context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext 读取 context 中的主体
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
