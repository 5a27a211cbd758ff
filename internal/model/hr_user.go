package model

// HrUser HR 账号（租户），对应 hr_users 表
type HrUser struct {
	ID            string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyName   string `gorm:"type:varchar(150);not null"                     json:"company_name"`
	CompanyAvatar string `gorm:"type:varchar(500);not null;default:''"          json:"company_avatar"`
	Name          string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email         string `gorm:"type:varchar(150);not null;uniqueIndex"         json:"email"`
	Phone         string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"phone"`
	PasswordHash  string `gorm:"type:varchar(255);not null"                     json:"-"`
	BaseModel
}

// TableName 指定表名
func (HrUser) TableName() string { return "hr_users" }
