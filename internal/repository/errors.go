package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL 唯一约束名，与迁移文件保持一致
const (
	ConstraintHrEmail           = "uq_hr_users_email"
	ConstraintHrPhone           = "uq_hr_users_phone"
	ConstraintEmployeeCode      = "uq_employees_code"
	ConstraintEmployeeEmail     = "uq_employees_email"
	ConstraintEmployeeMobile    = "uq_employees_mobile"
	ConstraintAttendanceEmpDate = "uq_attendances_employee_date"
	pgUniqueViolation           = "23505"
)

// ErrDuplicateKey 写入违反唯一约束
var ErrDuplicateKey = errors.New("唯一约束冲突")

// DuplicateKeyError 携带冲突约束名的唯一约束错误，errors.Is(err, ErrDuplicateKey) 为真
type DuplicateKeyError struct {
	Constraint string
	Err        error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("唯一约束冲突 %s: %v", e.Constraint, e.Err)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// Is 匹配 ErrDuplicateKey
func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// ConstraintOf 返回唯一约束错误的约束名，非唯一约束错误返回空串
func ConstraintOf(err error) string {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return dup.Constraint
	}
	return ""
}

// translateError 将驱动层的唯一约束错误包装为 DuplicateKeyError
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &DuplicateKeyError{Constraint: pgErr.ConstraintName, Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateKeyError{Err: err}
	}
	return err
}
