package service

import (
	"errors"
	"fmt"

	restaurantModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"
	restaurantRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/provider"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/config"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/logger"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound       = errors.New("subscription plan not found")
	ErrNotRestaurantOwner = errors.New("caller does not own a restaurant")
)

// PlanInput 套餐写入参数
type PlanInput struct {
	Name        string
	Description string
	Price       float64
	Interval    string
	Features    []byte
	MaxProducts int
	IsActive    bool
}

// SubscriptionService 订阅服务接口
type SubscriptionService interface {
	ListPlans() ([]model.SubscriptionPlan, error)
	CreateCheckout(ownerUserID, planID string) (*provider.CheckoutSession, error)
	// HandleWebhook 处理支付方回调
	// 只有签名失败返回 provider.ErrInvalidSignature，
	// 其余处理错误记录日志后吞掉，避免支付方重试风暴
	HandleWebhook(payload []byte, signature string) error

	// 管理端
	ListAllPlans() ([]model.SubscriptionPlan, error)
	CreatePlan(input PlanInput) (*model.SubscriptionPlan, error)
	UpdatePlan(id string, input PlanInput) (*model.SubscriptionPlan, error)
	DeletePlan(id string) error
}

type subscriptionService struct {
	plans         repository.PlanRepository
	subscriptions repository.SubscriptionRepository
	restaurants   restaurantRepo.RestaurantRepository
	provider      provider.Provider
}

func NewSubscriptionService(
	plans repository.PlanRepository,
	subscriptions repository.SubscriptionRepository,
	restaurants restaurantRepo.RestaurantRepository,
	paymentProvider provider.Provider,
) SubscriptionService {
	return &subscriptionService{
		plans:         plans,
		subscriptions: subscriptions,
		restaurants:   restaurants,
		provider:      paymentProvider,
	}
}

func (s *subscriptionService) ListPlans() ([]model.SubscriptionPlan, error) {
	return s.plans.ListActive()
}

func (s *subscriptionService) CreateCheckout(ownerUserID, planID string) (*provider.CheckoutSession, error) {
	restaurant, err := s.restaurants.GetByOwner(ownerUserID)
	if err != nil {
		return nil, ErrNotRestaurantOwner
	}

	plan, err := s.plans.GetByID(planID)
	if err != nil || !plan.IsActive {
		return nil, ErrPlanNotFound
	}

	baseURL := config.GlobalConfig.App.BaseURL
	return s.provider.CreateCheckoutSession(provider.CheckoutParams{
		PlanName:     plan.Name,
		Price:        plan.Price,
		Currency:     config.GlobalConfig.Payment.Currency,
		Interval:     plan.Interval,
		RestaurantID: restaurant.ID,
		PlanID:       plan.ID,
		UserID:       ownerUserID,
		SuccessURL:   fmt.Sprintf("%s/restaurant/subscription?checkout=success", baseURL),
		CancelURL:    fmt.Sprintf("%s/restaurant/subscription?checkout=cancelled", baseURL),
	})
}

func (s *subscriptionService) HandleWebhook(payload []byte, signature string) error {
	collector := metrics.GetGlobalCollector()

	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, provider.ErrInvalidSignature) {
			collector.RecordWebhookEvent("unknown", "invalid_signature")
			return err
		}
		// 签名合法但载荷解不开，吞掉并记录
		logger.Log.Error("webhook payload decode failed", zap.Error(err))
		collector.RecordWebhookEvent("unknown", "decode_error")
		return nil
	}

	if event.Type == provider.EventIgnored {
		collector.RecordWebhookEvent(event.Type, "ignored")
		return nil
	}

	// 事件台账去重：同一事件号的重复投递是无操作
	fresh, err := s.subscriptions.RecordEvent(event.ID, event.Type)
	if err != nil {
		logger.Log.Error("webhook event ledger write failed",
			zap.String("event_id", event.ID), zap.Error(err))
		collector.RecordWebhookEvent(event.Type, "error")
		return nil
	}
	if !fresh {
		collector.RecordWebhookEvent(event.Type, "duplicate")
		return nil
	}

	if err := s.processEvent(event); err != nil {
		logger.Log.Error("webhook event processing failed",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
			zap.Error(err))
		collector.RecordWebhookEvent(event.Type, "error")
		// 撤销台账登记，否则同一事件号的人工重投会被当成重复吞掉
		if derr := s.subscriptions.DeleteEvent(event.ID); derr != nil {
			logger.Log.Error("webhook event ledger rollback failed, manual cleanup required",
				zap.String("event_id", event.ID), zap.Error(derr))
		}
		return nil
	}
	collector.RecordWebhookEvent(event.Type, "processed")
	return nil
}

func (s *subscriptionService) processEvent(event *provider.Event) error {
	switch event.Type {
	case provider.EventCheckoutCompleted:
		restaurantID := event.Metadata["restaurant_id"]
		planID := event.Metadata["plan_id"]
		if restaurantID == "" || planID == "" {
			return fmt.Errorf("checkout event %s missing metadata", event.ID)
		}
		plan, err := s.plans.GetByID(planID)
		if err != nil {
			return fmt.Errorf("plan %s: %w", planID, err)
		}
		expiry, err := s.subscriptions.Renew(restaurantID, plan, event.ProviderSubscriptionID)
		if err != nil {
			return fmt.Errorf("renew restaurant %s: %w", restaurantID, err)
		}
		logger.Log.Info("subscription renewed",
			zap.String("restaurant_id", restaurantID),
			zap.String("plan_id", planID),
			zap.Time("expires_at", *expiry))
		return nil

	case provider.EventInvoicePaymentFailed:
		return s.subscriptions.UpdateStatusByProviderSub(
			event.ProviderSubscriptionID, restaurantModel.SubscriptionPaymentFailed, false)

	case provider.EventSubscriptionDeleted:
		return s.subscriptions.UpdateStatusByProviderSub(
			event.ProviderSubscriptionID, restaurantModel.SubscriptionCancelled, true)
	}
	return nil
}

func (s *subscriptionService) ListAllPlans() ([]model.SubscriptionPlan, error) {
	return s.plans.ListAll()
}

func (s *subscriptionService) CreatePlan(input PlanInput) (*model.SubscriptionPlan, error) {
	plan := &model.SubscriptionPlan{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Interval:    input.Interval,
		Features:    datatypes.JSON(input.Features),
		MaxProducts: input.MaxProducts,
		IsActive:    input.IsActive,
	}
	if err := s.plans.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *subscriptionService) UpdatePlan(id string, input PlanInput) (*model.SubscriptionPlan, error) {
	plan, err := s.plans.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	plan.Name = input.Name
	plan.Description = input.Description
	plan.Price = input.Price
	plan.Interval = input.Interval
	if input.Features != nil {
		plan.Features = datatypes.JSON(input.Features)
	}
	plan.MaxProducts = input.MaxProducts
	plan.IsActive = input.IsActive
	if err := s.plans.Update(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *subscriptionService) DeletePlan(id string) error {
	plan, err := s.plans.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return s.plans.Delete(plan)
}
