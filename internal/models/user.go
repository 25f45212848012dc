package models

// User roles
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User 用户模型
// Root of ownership: subscriptions, credit grants and transactions all reference a user id
type User struct {
	BaseModel

	Email string `json:"email" gorm:"not null;uniqueIndex;size:255"`
	Name  string `json:"name" gorm:"size:100"`
	Role  string `json:"role" gorm:"not null;size:20;default:'USER'"` // ADMIN or USER
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
