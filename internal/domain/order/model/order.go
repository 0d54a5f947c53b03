package model

import (
	"time"

	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"
)

// 订单状态
const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusPreparing  = "PREPARING"
	StatusReady      = "READY"
	StatusDelivering = "DELIVERING"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// 支付状态
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
)

// 配送方式
const (
	DeliveryTypeDelivery = "DELIVERY"
	DeliveryTypePickup   = "PICKUP"
)

// TransitionGuards 每个目标状态允许的前置状态
// COMPLETED 同时接受 READY，覆盖自取订单不经过配送的情况
var TransitionGuards = map[string][]string{
	StatusConfirmed:  {StatusPending},
	StatusPreparing:  {StatusConfirmed},
	StatusReady:      {StatusPreparing},
	StatusDelivering: {StatusReady},
	StatusCompleted:  {StatusDelivering, StatusReady},
	StatusCancelled:  {StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivering},
}

// IsTerminal 是否终态
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Order 订单模型
// 创建后状态只向前流转或取消，不允许重开
type Order struct {
	baseModel.BaseModel
	OrderNumber  string `gorm:"type:varchar(32);uniqueIndex;not null" json:"orderNumber"`
	UserID       string `gorm:"type:uuid;index;not null" json:"userId"`
	RestaurantID string `gorm:"type:uuid;index;not null" json:"restaurantId"`

	Status        string `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	PaymentStatus string `gorm:"type:varchar(20);default:'PENDING'" json:"paymentStatus"`

	TotalAmount float64 `gorm:"not null" json:"totalAmount"`
	DeliveryFee float64 `gorm:"default:0" json:"deliveryFee"`
	Discount    float64 `gorm:"default:0" json:"discount"`
	FinalAmount float64 `gorm:"not null" json:"finalAmount"`

	DeliveryType    string  `gorm:"type:varchar(10);not null" json:"deliveryType"`
	AddressID       *string `gorm:"type:uuid" json:"addressId,omitempty"`
	PaymentMethodID string  `gorm:"type:uuid;not null" json:"paymentMethodId"`

	Notes        string     `json:"notes,omitempty"`
	CancelReason string     `json:"cancelReason,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem 订单明细
// 单价和小计是下单时刻的快照，不跟随商品后续改价
type OrderItem struct {
	baseModel.BaseModel
	OrderID     string  `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID   string  `gorm:"type:uuid;not null" json:"productId"`
	ProductName string  `gorm:"type:varchar(150);not null" json:"productName"`
	UnitPrice   float64 `gorm:"not null" json:"unitPrice"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	TotalPrice  float64 `gorm:"not null" json:"totalPrice"`
	Notes       string  `json:"notes,omitempty"`
}
