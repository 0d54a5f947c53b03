package model

import (
	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"
)

// Banner 首页轮播图
type Banner struct {
	baseModel.BaseModel
	Title    string `gorm:"type:varchar(150);not null" json:"title"`
	ImageURL string `gorm:"not null" json:"imageUrl"`
	LinkURL  string `json:"linkUrl"`
	Position int    `gorm:"default:0" json:"position"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

// PaymentMethod 下单支付方式（货到付款、到付刷卡等）
// IsOnline 为 false 表示骑手送达时结算
type PaymentMethod struct {
	baseModel.BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Code     string `gorm:"uniqueIndex;not null" json:"code"`
	IsOnline bool   `gorm:"default:false" json:"isOnline"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

// SiteSetting 平台级键值配置
// 支付服务商密钥可通过这里覆盖环境配置（沙箱/生产切换）
type SiteSetting struct {
	baseModel.BaseModel
	Key   string `gorm:"uniqueIndex;not null" json:"key"`
	Value string `json:"value"`
}

// 订阅模块消费的配置键
const (
	SettingPaymentSecretKey      = "payment.secret_key"
	SettingPaymentPublishableKey = "payment.publishable_key"
	SettingPaymentWebhookSecret  = "payment.webhook_secret"
	SettingPaymentSandbox        = "payment.sandbox"
)
