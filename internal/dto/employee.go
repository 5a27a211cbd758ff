package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest HR 创建员工请求
type CreateEmployeeRequest struct {
	FirstName     string `json:"first_name"      binding:"required,max=100"`
	LastName      string `json:"last_name"       binding:"required,max=100"`
	Email         string `json:"email"           binding:"required,email"`
	YearOfJoining int    `json:"year_of_joining" binding:"required,min=1900,max=2999"`
	Mobile        string `json:"mobile"          binding:"required,numeric,len=10"`
	Department    string `json:"department"      binding:"omitempty,max=100"`
	Manager       string `json:"manager"         binding:"omitempty,max=100"`
	Location      string `json:"location"        binding:"omitempty,max=100"`
	JobPosition   string `json:"job_position"    binding:"omitempty,max=100"`
}
