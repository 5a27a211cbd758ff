// Package idgen 生成员工编号：公司代码(2) + 姓名代码(2) + 入职年份(2) + 流水号(3)，如 COJO23001。
//
// 流水号取同前缀下字典序最大的已有编号加一。该读取-递增本身不是原子的，
// 调用方必须在持有前缀级锁的事务中调用 Generate，并以员工编号唯一约束兜底。
package idgen

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

const (
	serialDigits = 3
	maxSerial    = 999
	padLetter    = 'X'
)

// ErrSerialExhausted 同一前缀下流水号已用尽
var ErrSerialExhausted = errors.New("该前缀下员工编号流水号已用尽")

// CodeLookup 查询同前缀下字典序最大的员工编号；不存在时返回空串
type CodeLookup interface {
	FindLastCodeByPrefix(ctx context.Context, prefix string) (string, error)
}

// Result 生成结果
type Result struct {
	Code   string
	Prefix string
	Serial int
	// FallbackUsed 为 true 表示上一个编号的流水号无法解析，已回退到 001，结果可能与已有编号冲突
	FallbackUsed bool
}

// Allocator 员工编号分配器
type Allocator struct {
	lookup CodeLookup
	logger *zap.Logger
}

// NewAllocator 创建分配器
func NewAllocator(lookup CodeLookup, logger *zap.Logger) *Allocator {
	return &Allocator{lookup: lookup, logger: logger}
}

// Generate 生成员工编号
func (a *Allocator) Generate(ctx context.Context, companyName, givenName string, yearOfJoining int) (*Result, error) {
	prefix := Prefix(companyName, givenName, yearOfJoining)

	last, err := a.lookup.FindLastCodeByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("查询编号前缀 %s 失败: %w", prefix, err)
	}

	serial, ok := NextSerial(last)
	if !ok {
		a.logger.Warn("上一个员工编号流水号无法解析，回退为 001",
			zap.String("prefix", prefix),
			zap.String("last_code", last),
		)
	}
	if serial > maxSerial {
		return nil, ErrSerialExhausted
	}

	return &Result{
		Code:         prefix + fmt.Sprintf("%0*d", serialDigits, serial),
		Prefix:       prefix,
		Serial:       serial,
		FallbackUsed: !ok,
	}, nil
}

// Prefix 计算编号前缀
func Prefix(companyName, givenName string, yearOfJoining int) string {
	return TwoLetterCode(companyName) + TwoLetterCode(givenName) + YearCode(yearOfJoining)
}

// TwoLetterCode 去掉非字母字符后取前两个字母并大写，不足两位以 X 补齐
func TwoLetterCode(s string) string {
	letters := make([]rune, 0, 2)
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			continue
		}
		letters = append(letters, unicode.ToUpper(r))
		if len(letters) == 2 {
			break
		}
	}
	for len(letters) < 2 {
		letters = append(letters, padLetter)
	}
	return string(letters)
}

// YearCode 入职年份后两位
func YearCode(year int) string {
	if year < 0 {
		year = -year
	}
	return fmt.Sprintf("%02d", year%100)
}

// NextSerial 根据上一个编号计算下一个流水号
// last 为空返回 (1, true)；末三位无法解析返回 (1, false)
func NextSerial(last string) (int, bool) {
	if last == "" {
		return 1, true
	}
	if len(last) < serialDigits {
		return 1, false
	}
	tail := last[len(last)-serialDigits:]
	if strings.ContainsFunc(tail, func(r rune) bool { return r < '0' || r > '9' }) {
		return 1, false
	}
	n, err := strconv.Atoi(tail)
	if err != nil {
		return 1, false
	}
	return n + 1, true
}
