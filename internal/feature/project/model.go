package project

import "time"

// Model 是学习项目看板的条目：没有生命周期，纯 owner 维度 CRUD。
type Model struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string    `gorm:"size:36;index" json:"ownerId"`
	Title       string    `gorm:"size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:64" json:"category"`
	Spots       int       `json:"spots"` // 招募名额
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Model) TableName() string { return "projects" }
