package model

import (
	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"
)

// 用户角色
const (
	RoleUser       = "USER"
	RoleRestaurant = "RESTAURANT"
	RoleAdmin      = "ADMIN"
)

// 用户状态
const (
	StatusActive = "ACTIVE"
	StatusBanned = "BANNED"
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"` // 密码不返回给前端
	Phone    string `gorm:"type:varchar(20)" json:"phone"`
	Role     string `gorm:"type:varchar(20);default:'USER'" json:"role"`
	Status   string `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
}

// Address 收货地址
type Address struct {
	baseModel.BaseModel
	UserID     string `gorm:"type:uuid;index;not null" json:"userId"`
	Label      string `gorm:"type:varchar(50)" json:"label"` // 家、公司等
	Street     string `gorm:"not null" json:"street"`
	Number     string `gorm:"type:varchar(20)" json:"number"`
	District   string `gorm:"type:varchar(100)" json:"district"`
	City       string `gorm:"type:varchar(100);not null" json:"city"`
	State      string `gorm:"type:varchar(50)" json:"state"`
	ZipCode    string `gorm:"type:varchar(20)" json:"zipCode"`
	Complement string `json:"complement"`
	IsDefault  bool   `gorm:"default:false" json:"isDefault"`
}
