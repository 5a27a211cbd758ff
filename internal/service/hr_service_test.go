package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/KunjGarala/Dayflow/internal/dto"
)

func validSignup() *dto.HrSignupRequest {
	return &dto.HrSignupRequest{
		CompanyName:     "Cognizant",
		Name:            "Asha Rao",
		Email:           "Asha@Cognizant.com",
		Phone:           "9876543210",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
	}
}

func TestHrService_Signup(t *testing.T) {
	m := newMockRepos()
	svc := NewHrService(m.repo, newTestJWTManager(), zap.NewNop())

	resp, err := svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if resp.Hr.Email != "asha@cognizant.com" {
		t.Errorf("邮箱应转为小写，实际=%s", resp.Hr.Email)
	}
	if resp.AccessToken == "" {
		t.Error("注册后应直接签发 token")
	}
	if len(m.hr.hrs) != 1 {
		t.Errorf("期望写入 1 个 HR，实际=%d", len(m.hr.hrs))
	}
}

func TestHrService_Signup_PasswordMismatch(t *testing.T) {
	m := newMockRepos()
	svc := NewHrService(m.repo, newTestJWTManager(), zap.NewNop())

	req := validSignup()
	req.ConfirmPassword = "different"
	if _, err := svc.Signup(context.Background(), req); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("期望 ErrPasswordMismatch，实际: %v", err)
	}
}

func TestHrService_Signup_Duplicates(t *testing.T) {
	m := newMockRepos()
	svc := NewHrService(m.repo, newTestJWTManager(), zap.NewNop())
	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}

	if _, err := svc.Signup(context.Background(), validSignup()); !errors.Is(err, ErrHrEmailExists) {
		t.Errorf("重复邮箱期望 ErrHrEmailExists，实际: %v", err)
	}

	req := validSignup()
	req.Email = "other@cognizant.com"
	if _, err := svc.Signup(context.Background(), req); !errors.Is(err, ErrHrPhoneExists) {
		t.Errorf("重复手机号期望 ErrHrPhoneExists，实际: %v", err)
	}
}

func TestHrService_Signup_EmailTakenByEmployee(t *testing.T) {
	m := newMockRepos()
	m.seedEmployee("emp-1", "hr-x", "COJO23001", "asha@cognizant.com", "Temp1234")
	svc := NewHrService(m.repo, newTestJWTManager(), zap.NewNop())

	if _, err := svc.Signup(context.Background(), validSignup()); !errors.Is(err, ErrHrEmailExists) {
		t.Errorf("员工已占用邮箱期望 ErrHrEmailExists，实际: %v", err)
	}
}

func TestHrService_Profile(t *testing.T) {
	m := newMockRepos()
	m.seedHr("hr-1", "hr@acme.io", "Passw0rd!")
	svc := NewHrService(m.repo, newTestJWTManager(), zap.NewNop())

	resp, err := svc.Profile(context.Background(), "hr-1")
	if err != nil {
		t.Fatalf("Profile 失败: %v", err)
	}
	if resp.CompanyName != "Cognizant" {
		t.Errorf("期望 CompanyName=Cognizant，实际=%s", resp.CompanyName)
	}

	if _, err := svc.Profile(context.Background(), "missing"); !errors.Is(err, ErrHrNotFound) {
		t.Errorf("期望 ErrHrNotFound，实际: %v", err)
	}
}
