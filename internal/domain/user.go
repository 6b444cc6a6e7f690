package domain

import "time"

const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

// AnonymousEmail 是兼容旧行为的兜底身份：
// 无法解析请求主体时，归属到这个占位用户（见 identity.StoreResolver）。
const AnonymousEmail = "anonymous@campusmate.com"

type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:191" json:"email"`
	Name         string     `gorm:"size:64" json:"name"`
	PasswordHash string     `gorm:"size:191" json:"-"`
	Role         string     `gorm:"size:16" json:"role"` // student/tutor/admin
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	Department   string     `gorm:"size:64" json:"department,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(offset, limit int, keyword string) ([]User, int64, error)
	Update(u *User) error
	Deactivate(id string) error
}
