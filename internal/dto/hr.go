package dto

// ── HR 模块 DTO ──

// HrSignupRequest HR 注册请求
type HrSignupRequest struct {
	CompanyName     string `json:"company_name"     binding:"required,max=150"`
	CompanyAvatar   string `json:"company_avatar"   binding:"omitempty,url,max=500"`
	Name            string `json:"name"             binding:"required,min=2,max=100"`
	Email           string `json:"email"            binding:"required,email"`
	Phone           string `json:"phone"            binding:"required,numeric,len=10"`
	Password        string `json:"password"         binding:"required,min=8,max=64"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}
