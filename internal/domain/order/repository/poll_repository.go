package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// PendingLookback 新订单轮询的固定回看窗口
const PendingLookback = 30 * time.Second

// PolledOrder 轮询返回的订单摘要行
type PolledOrder struct {
	ID          string    `db:"id" json:"id"`
	OrderNumber string    `db:"order_number" json:"orderNumber"`
	Status      string    `db:"status" json:"status"`
	FinalAmount float64   `db:"final_amount" json:"finalAmount"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// PollRepository 餐厅端轮询的只读查询
// 走 sqlx 而不是 gorm：轮询是整个系统里最热的路径，
// 不需要模型钩子和关联加载的开销
type PollRepository interface {
	CountRecentPending(restaurantID string, since time.Time) (int, error)
	ListSince(restaurantID string, since time.Time) ([]PolledOrder, error)
}

type pollRepository struct {
	db *sqlx.DB
}

func NewPollRepository(db *sqlx.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) CountRecentPending(restaurantID string, since time.Time) (int, error) {
	var count int
	err := r.db.Get(&count,
		`SELECT COUNT(*) FROM orders WHERE restaurant_id = $1 AND status = 'PENDING' AND created_at > $2 AND deleted_at IS NULL`,
		restaurantID, since)
	return count, err
}

func (r *pollRepository) ListSince(restaurantID string, since time.Time) ([]PolledOrder, error) {
	orders := []PolledOrder{}
	err := r.db.Select(&orders,
		`SELECT id, order_number, status, final_amount, created_at
		 FROM orders
		 WHERE restaurant_id = $1 AND created_at > $2 AND deleted_at IS NULL
		 ORDER BY created_at ASC`,
		restaurantID, since)
	return orders, err
}
