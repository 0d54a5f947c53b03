package model

import (
	"time"

	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"
)

// 订阅状态
const (
	SubscriptionPending       = "PENDING"
	SubscriptionActive        = "ACTIVE"
	SubscriptionPaymentFailed = "PAYMENT_FAILED"
	SubscriptionCancelled     = "CANCELLED"
	SubscriptionExpired       = "EXPIRED"
)

// Restaurant 餐厅模型
// 可见性不变量：只有 is_active && is_approved && subscription_status = ACTIVE
// 的餐厅才出现在公开列表和浏览查询中
type Restaurant struct {
	baseModel.BaseModel
	OwnerUserID string `gorm:"type:uuid;uniqueIndex;not null" json:"ownerUserId"`
	CategoryID  string `gorm:"type:uuid;index" json:"categoryId"`
	Name        string `gorm:"type:varchar(150);not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Phone       string `gorm:"type:varchar(20)" json:"phone"`
	AddressLine string `json:"addressLine"`

	DeliveryFee     float64 `gorm:"default:0" json:"deliveryFee"`
	DeliveryTimeMin int     `gorm:"default:30" json:"deliveryTimeMin"` // 预计送达时间（分钟）
	DeliveryTimeMax int     `gorm:"default:60" json:"deliveryTimeMax"`
	MinOrderAmount  float64 `gorm:"default:0" json:"minOrderAmount"`

	// 营业/审核状态
	IsActive        bool       `gorm:"default:true" json:"isActive"`
	IsApproved      bool       `gorm:"default:false" json:"isApproved"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`

	// 评分聚合，由评价模块在事务内维护
	Rating       float64 `gorm:"default:0" json:"rating"`
	TotalReviews int     `gorm:"default:0" json:"totalReviews"`

	// 订阅状态，只由支付回调和管理端动作修改
	SubscriptionPlanID     *string    `gorm:"type:uuid" json:"subscriptionPlanId,omitempty"`
	SubscriptionStatus     string     `gorm:"type:varchar(20);default:'PENDING'" json:"subscriptionStatus"`
	SubscriptionExpiresAt  *time.Time `json:"subscriptionExpiresAt,omitempty"`
	ProviderSubscriptionID string     `gorm:"index" json:"-"`
}

// IsVisible 是否公开可见
func (r *Restaurant) IsVisible() bool {
	return r.IsActive && r.IsApproved && r.SubscriptionStatus == SubscriptionActive
}

// Category 餐厅分类
type Category struct {
	baseModel.BaseModel
	Name     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	ImageURL string `json:"imageUrl"`
	Position int    `gorm:"default:0" json:"position"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

// Product 商品模型
type Product struct {
	baseModel.BaseModel
	RestaurantID  string   `gorm:"type:uuid;index;not null" json:"restaurantId"`
	Name          string   `gorm:"type:varchar(150);not null" json:"name"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"imageUrl"`
	Price         float64  `gorm:"not null" json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"` // 促销价，优先于 Price 用于下单快照
	IsAvailable   bool     `gorm:"default:true" json:"isAvailable"`
}

// EffectivePrice 下单时的快照单价：有促销价用促销价，否则用原价
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return *p.DiscountPrice
	}
	return p.Price
}
