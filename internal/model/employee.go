package model

// Employee 员工，对应 employees 表
type Employee struct {
	ID                 string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeCode       string `gorm:"type:varchar(9);not null;uniqueIndex"           json:"employee_code"`
	FirstName          string `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName           string `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email              string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"email"`
	Mobile             string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"mobile"`
	PasswordHash       string `gorm:"type:varchar(255);not null"                     json:"-"`
	MustChangePassword bool   `gorm:"not null;default:true"                          json:"must_change_password"`
	JobPosition        string `gorm:"type:varchar(100);not null;default:''"          json:"job_position"`
	Department         string `gorm:"type:varchar(100);not null;default:''"          json:"department"`
	Manager            string `gorm:"type:varchar(100);not null;default:''"          json:"manager"`
	Location           string `gorm:"type:varchar(100);not null;default:''"          json:"location"`
	Company            string `gorm:"type:varchar(150);not null"                     json:"company"`
	CompanyAvatar      string `gorm:"type:varchar(500);not null;default:''"          json:"company_avatar"`
	YearOfJoining      int    `gorm:"not null"                                       json:"year_of_joining"`
	HrID               string `gorm:"type:uuid;not null;index"                       json:"hr_id"`
	BaseModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// FullName 姓名
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
