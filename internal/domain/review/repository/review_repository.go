package repository

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review/model"

	"gorm.io/gorm"
)

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	// CreateAndRecalc 写入评价并在同一事务内重算餐厅的评分聚合
	CreateAndRecalc(review *model.Review) error
	GetByOrderID(orderID string) (*model.Review, error)
	ListByRestaurant(restaurantID string, offset, limit int) ([]model.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) CreateAndRecalc(review *model.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		// 聚合从评价表重算而不是增量累加，
		// 同一事务内完成，读不到半更新的评分
		var agg struct {
			Avg   float64
			Count int64
		}
		if err := tx.Model(&model.Review{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("restaurant_id = ?", review.RestaurantID).
			Scan(&agg).Error; err != nil {
			return err
		}

		return tx.Table("restaurants").
			Where("id = ?", review.RestaurantID).
			Updates(map[string]interface{}{
				"rating":        agg.Avg,
				"total_reviews": agg.Count,
			}).Error
	})
}

func (r *reviewRepository) GetByOrderID(orderID string) (*model.Review, error) {
	var review model.Review
	if err := r.db.First(&review, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByRestaurant(restaurantID string, offset, limit int) ([]model.Review, int64, error) {
	var reviews []model.Review
	var total int64

	query := r.db.Model(&model.Review{}).Where("restaurant_id = ?", restaurantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	return reviews, total, err
}
