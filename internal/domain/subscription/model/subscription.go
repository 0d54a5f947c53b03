package model

import (
	"time"

	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"
	"gorm.io/datatypes"
)

// 计费周期
const (
	IntervalMonthly    = "MONTHLY"
	IntervalQuarterly  = "QUARTERLY"
	IntervalSemiannual = "SEMIANNUAL"
	IntervalAnnual     = "ANNUAL"
)

// SubscriptionPlan 订阅套餐
type SubscriptionPlan struct {
	baseModel.BaseModel
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Interval    string         `gorm:"type:varchar(20);not null" json:"interval"`
	Features    datatypes.JSON `gorm:"type:jsonb" json:"features"`
	MaxProducts int            `gorm:"default:0" json:"maxProducts"` // 0 表示不限
	IsActive    bool           `gorm:"default:true" json:"isActive"`
}

// NextExpiry 从 from 起加一个计费周期
// 续费基准由调用方决定（到期前续费从旧到期日起算，过期后从当前时间起算）
func (p *SubscriptionPlan) NextExpiry(from time.Time) time.Time {
	switch p.Interval {
	case IntervalQuarterly:
		return from.AddDate(0, 3, 0)
	case IntervalSemiannual:
		return from.AddDate(0, 6, 0)
	case IntervalAnnual:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// WebhookEvent 已处理的回调事件台账
// event_id 上的唯一索引把重复投递压成无操作
type WebhookEvent struct {
	baseModel.BaseModel
	EventID string `gorm:"type:varchar(255);uniqueIndex;not null" json:"eventId"`
	Type    string `gorm:"type:varchar(100);not null" json:"type"`
}
