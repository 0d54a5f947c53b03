package model

import (
	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"
)

// Review 订单评价
// 与订单一对一，order_id 上的唯一索引保证同一订单只能评价一次
type Review struct {
	baseModel.BaseModel
	OrderID      string `gorm:"type:uuid;uniqueIndex;not null" json:"orderId"`
	UserID       string `gorm:"type:uuid;index;not null" json:"userId"`
	RestaurantID string `gorm:"type:uuid;index;not null" json:"restaurantId"`
	Rating       int    `gorm:"not null" json:"rating"` // 1..5
	Comment      string `json:"comment,omitempty"`
}
