package repository

import (
	"time"

	restaurantModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository 订阅对账的写入接口
// 餐厅的订阅字段只经过这里和管理端动作修改
type SubscriptionRepository interface {
	// RecordEvent 登记回调事件，重复投递返回 false
	RecordEvent(eventID, eventType string) (bool, error)
	// DeleteEvent 撤销事件登记，处理失败的事件重新投递时得以重新处理
	DeleteEvent(eventID string) error
	// Renew 续费：行锁内从 max(now, 当前到期日) 加一个计费周期
	Renew(restaurantID string, plan *model.SubscriptionPlan, providerSubID string) (*time.Time, error)
	// UpdateStatusByProviderSub 按支付方订阅号更新状态
	UpdateStatusByProviderSub(providerSubID, status string, deactivate bool) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) RecordEvent(eventID, eventType string) (bool, error) {
	event := model.WebhookEvent{EventID: eventID, Type: eventType}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&event)
	if result.Error != nil {
		return false, result.Error
	}
	// 0 行表示事件已经处理过
	return result.RowsAffected > 0, nil
}

// DeleteEvent 硬删除：软删除的行仍占用 event_id 唯一索引，会把重投当成重复
func (r *subscriptionRepository) DeleteEvent(eventID string) error {
	return r.db.Unscoped().Where("event_id = ?", eventID).Delete(&model.WebhookEvent{}).Error
}

func (r *subscriptionRepository) Renew(restaurantID string, plan *model.SubscriptionPlan, providerSubID string) (*time.Time, error) {
	var newExpiry time.Time
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var restaurant restaurantModel.Restaurant
		// 行锁：同一餐厅的并发续费串行执行
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&restaurant, "id = ?", restaurantID).Error; err != nil {
			return err
		}

		// 到期前续费从旧到期日顺延，过期或首次订阅从当前时间起算
		base := time.Now()
		if restaurant.SubscriptionExpiresAt != nil && restaurant.SubscriptionExpiresAt.After(base) {
			base = *restaurant.SubscriptionExpiresAt
		}
		newExpiry = plan.NextExpiry(base)

		updates := map[string]interface{}{
			"subscription_plan_id":    plan.ID,
			"subscription_status":     restaurantModel.SubscriptionActive,
			"subscription_expires_at": newExpiry,
			"is_active":               true,
		}
		if providerSubID != "" {
			updates["provider_subscription_id"] = providerSubID
		}
		return tx.Model(&restaurantModel.Restaurant{}).
			Where("id = ?", restaurantID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &newExpiry, nil
}

func (r *subscriptionRepository) UpdateStatusByProviderSub(providerSubID, status string, deactivate bool) error {
	updates := map[string]interface{}{"subscription_status": status}
	if deactivate {
		updates["is_active"] = false
	}
	result := r.db.Model(&restaurantModel.Restaurant{}).
		Where("provider_subscription_id = ?", providerSubID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
