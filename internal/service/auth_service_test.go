package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/KunjGarala/Dayflow/config"
	"github.com/KunjGarala/Dayflow/internal/auth"
	"github.com/KunjGarala/Dayflow/internal/dto"
	"github.com/KunjGarala/Dayflow/pkg/jwt"
)

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret: "test-secret-key-for-service-tests-0001",
		TokenTTL:  24 * time.Hour,
		ClockSkew: time.Minute,
	})
}

func setupTestAuthService() (AuthService, *mockRepos, *jwt.Manager) {
	m := newMockRepos()
	mgr := newTestJWTManager()
	return NewAuthService(m.repo, mgr, zap.NewNop()), m, mgr
}

// ── Login ──

func TestAuthService_Login_Hr(t *testing.T) {
	svc, m, mgr := setupTestAuthService()
	m.seedHr("hr-1", "hr@acme.io", "Passw0rd!")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Identifier: "  HR@Acme.io ", Password: "Passw0rd!"})
	if err != nil {
		t.Fatalf("HR 登录失败: %v", err)
	}
	if resp.User.Role != "HR" {
		t.Errorf("期望 Role=HR，实际=%s", resp.User.Role)
	}
	if resp.ExpiresIn != 86400 {
		t.Errorf("期望 ExpiresIn=86400，实际=%d", resp.ExpiresIn)
	}

	claims, err := mgr.Verify(resp.AccessToken)
	if err != nil {
		t.Fatalf("签发的 token 无法校验: %v", err)
	}
	if claims.UserID != "hr-1" || claims.Subject != "hr@acme.io" {
		t.Errorf("claims 不符: %+v", claims)
	}
}

func TestAuthService_Login_EmployeeByCode(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	m.seedHr("hr-1", "hr@acme.io", "Passw0rd!")
	m.seedEmployee("emp-1", "hr-1", "COJO23001", "john@acme.io", "Temp1234")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Identifier: "COJO23001", Password: "Temp1234"})
	if err != nil {
		t.Fatalf("员工编号登录失败: %v", err)
	}
	if resp.User.Role != "EMPLOYEE" {
		t.Errorf("期望 Role=EMPLOYEE，实际=%s", resp.User.Role)
	}
	if resp.User.EmployeeCode != "COJO23001" {
		t.Errorf("期望 EmployeeCode=COJO23001，实际=%s", resp.User.EmployeeCode)
	}
	if !resp.User.MustChangePassword {
		t.Error("新员工应要求修改密码")
	}
}

func TestAuthService_Login_EmployeeByEmail(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	m.seedEmployee("emp-1", "hr-1", "COJO23001", "john@acme.io", "Temp1234")

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Identifier: "John@Acme.io", Password: "Temp1234"}); err != nil {
		t.Fatalf("员工邮箱登录失败: %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	m.seedHr("hr-1", "hr@acme.io", "Passw0rd!")
	m.seedEmployee("emp-1", "hr-1", "COJO23001", "john@acme.io", "Temp1234")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Identifier: "hr@acme.io", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("HR 密码错误期望 ErrInvalidCredentials，实际: %v", err)
	}
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Identifier: "COJO23001", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("员工密码错误期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownIdentifier(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Identifier: "nobody@acme.io", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Me ──

func TestAuthService_Me(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	m.seedEmployee("emp-1", "hr-1", "COJO23001", "john@acme.io", "Temp1234")

	info, err := svc.Me(context.Background(), auth.Principal{UserID: "emp-1", Role: auth.RoleEmployee})
	if err != nil {
		t.Fatalf("Me 失败: %v", err)
	}
	if info.Name != "John Doe" {
		t.Errorf("期望 Name=John Doe，实际=%s", info.Name)
	}

	_, err = svc.Me(context.Background(), auth.Principal{UserID: "missing", Role: auth.RoleHR})
	if !errors.Is(err, ErrHrNotFound) {
		t.Errorf("期望 ErrHrNotFound，实际: %v", err)
	}
}

// ── ChangePassword ──

func TestAuthService_ChangePassword_Employee(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	emp := m.seedEmployee("emp-1", "hr-1", "COJO23001", "john@acme.io", "Temp1234")
	p := auth.Principal{UserID: "emp-1", Role: auth.RoleEmployee}

	err := svc.ChangePassword(context.Background(), p, &dto.ChangePasswordRequest{OldPassword: "Temp1234", NewPassword: "NewPass99"})
	if err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}
	if !checkPassword(emp.PasswordHash, "NewPass99") {
		t.Error("新密码未生效")
	}
	if emp.MustChangePassword {
		t.Error("修改密码后应清除 MustChangePassword")
	}
}

func TestAuthService_ChangePassword_Errors(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	m.seedHr("hr-1", "hr@acme.io", "Passw0rd!")
	p := auth.Principal{UserID: "hr-1", Role: auth.RoleHR}

	err := svc.ChangePassword(context.Background(), p, &dto.ChangePasswordRequest{OldPassword: "Passw0rd!", NewPassword: "Passw0rd!"})
	if !errors.Is(err, ErrSamePassword) {
		t.Errorf("期望 ErrSamePassword，实际: %v", err)
	}

	err = svc.ChangePassword(context.Background(), p, &dto.ChangePasswordRequest{OldPassword: "wrong-old", NewPassword: "NewPass99"})
	if !errors.Is(err, ErrWrongOldPassword) {
		t.Errorf("期望 ErrWrongOldPassword，实际: %v", err)
	}
}
