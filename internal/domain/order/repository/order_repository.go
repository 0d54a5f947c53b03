package repository

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/model"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	CreateWithItems(order *model.Order, items []model.OrderItem) error
	GetByID(id string) (*model.Order, error)
	ListByUser(userID string, offset, limit int) ([]model.Order, int64, error)
	ListByRestaurant(restaurantID, status string, offset, limit int) ([]model.Order, int64, error)
	// UpdateStatus 带前置状态守卫的条件更新，返回受影响行数。
	// 0 行表示当前状态不在 allowedFrom 中，由调用方区分幂等重复和非法跳转。
	UpdateStatus(orderID, toStatus string, allowedFrom []string, updates map[string]interface{}) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems 订单与明细在同一事务内写入，任一明细失败整单回滚
func (r *orderRepository) CreateWithItems(order *model.Order, items []model.OrderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(userID string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.Model(&model.Order{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) ListByRestaurant(restaurantID, status string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.Model(&model.Order{}).Where("restaurant_id = ?", restaurantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) UpdateStatus(orderID, toStatus string, allowedFrom []string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = toStatus

	// 条件 UPDATE 把守卫检查和写入压成一条语句，
	// 并发的重复请求最多只有一条能命中
	result := r.db.Model(&model.Order{}).
		Where("id = ? AND status IN ?", orderID, allowedFrom).
		Updates(updates)
	return result.RowsAffected, result.Error
}
