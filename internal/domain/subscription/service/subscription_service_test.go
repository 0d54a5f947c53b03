package service

import (
	"os"
	"testing"
	"time"

	restaurantModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"
	restaurantRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/provider"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/config"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/logger"
	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	config.GlobalConfig.App.BaseURL = "http://localhost:3000"
	config.GlobalConfig.Payment.Currency = "brl"
	os.Exit(m.Run())
}

// MockPlanRepository is a mock of PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(plan *model.SubscriptionPlan) error {
	args := m.Called(plan)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByID(id string) (*model.SubscriptionPlan, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) ListActive() ([]model.SubscriptionPlan, error) {
	args := m.Called()
	return args.Get(0).([]model.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) ListAll() ([]model.SubscriptionPlan, error) {
	args := m.Called()
	return args.Get(0).([]model.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) Update(plan *model.SubscriptionPlan) error {
	args := m.Called(plan)
	return args.Error(0)
}

func (m *MockPlanRepository) Delete(plan *model.SubscriptionPlan) error {
	args := m.Called(plan)
	return args.Error(0)
}

// MockSubscriptionRepository is a mock of SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) DeleteEvent(eventID string) error {
	args := m.Called(eventID)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) RecordEvent(eventID, eventType string) (bool, error) {
	args := m.Called(eventID, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) Renew(restaurantID string, plan *model.SubscriptionPlan, providerSubID string) (*time.Time, error) {
	args := m.Called(restaurantID, plan, providerSubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockSubscriptionRepository) UpdateStatusByProviderSub(providerSubID, status string, deactivate bool) error {
	args := m.Called(providerSubID, status, deactivate)
	return args.Error(0)
}

// MockRestaurantRepository is a mock of restaurant repository.RestaurantRepository
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) Create(restaurant *restaurantModel.Restaurant) error {
	args := m.Called(restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetByID(id string) (*restaurantModel.Restaurant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurantModel.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetBySlug(slug string) (*restaurantModel.Restaurant, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurantModel.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByOwner(ownerUserID string) (*restaurantModel.Restaurant, error) {
	args := m.Called(ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurantModel.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) ListVisible(filter restaurantRepo.ListFilter, offset, limit int) ([]restaurantModel.Restaurant, int64, error) {
	args := m.Called(filter, offset, limit)
	return args.Get(0).([]restaurantModel.Restaurant), args.Get(1).(int64), args.Error(2)
}

func (m *MockRestaurantRepository) ListAll(status string, offset, limit int) ([]restaurantModel.Restaurant, int64, error) {
	args := m.Called(status, offset, limit)
	return args.Get(0).([]restaurantModel.Restaurant), args.Get(1).(int64), args.Error(2)
}

func (m *MockRestaurantRepository) Update(restaurant *restaurantModel.Restaurant) error {
	args := m.Called(restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) UpdateApproval(id string, updates map[string]interface{}) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

// MockProvider is a mock of provider.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateCheckoutSession(params provider.CheckoutParams) (*provider.CheckoutSession, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CheckoutSession), args.Error(1)
}

func (m *MockProvider) ParseWebhook(payload []byte, signature string) (*provider.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Event), args.Error(1)
}

type testEnv struct {
	plans         *MockPlanRepository
	subscriptions *MockSubscriptionRepository
	restaurants   *MockRestaurantRepository
	provider      *MockProvider
	service       SubscriptionService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		plans:         new(MockPlanRepository),
		subscriptions: new(MockSubscriptionRepository),
		restaurants:   new(MockRestaurantRepository),
		provider:      new(MockProvider),
	}
	env.service = NewSubscriptionService(env.plans, env.subscriptions, env.restaurants, env.provider)
	return env
}

func annualPlan(id string) *model.SubscriptionPlan {
	return &model.SubscriptionPlan{
		BaseModel: baseModel.BaseModel{ID: id},
		Name:      "Annual",
		Price:     499.0,
		Interval:  model.IntervalAnnual,
		IsActive:  true,
	}
}

func TestNextExpiry(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Annual plan with no prior expiry lands one year out", func(t *testing.T) {
		plan := annualPlan("plan-1")
		assert.Equal(t, time.Date(2027, 3, 15, 12, 0, 0, 0, time.UTC), plan.NextExpiry(now))
	})

	t.Run("Quarterly adds three months", func(t *testing.T) {
		plan := annualPlan("plan-1")
		plan.Interval = model.IntervalQuarterly
		assert.Equal(t, time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC), plan.NextExpiry(now))
	})

	t.Run("Unknown interval defaults to monthly", func(t *testing.T) {
		plan := annualPlan("plan-1")
		plan.Interval = "WEEKLY"
		assert.Equal(t, time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC), plan.NextExpiry(now))
	})
}

func TestCreateCheckout(t *testing.T) {
	t.Run("Owner gets a checkout session with metadata", func(t *testing.T) {
		env := newTestEnv()
		restaurant := &restaurantModel.Restaurant{
			BaseModel:   baseModel.BaseModel{ID: "rest-1"},
			OwnerUserID: "owner-1",
		}

		env.restaurants.On("GetByOwner", "owner-1").Return(restaurant, nil)
		env.plans.On("GetByID", "plan-1").Return(annualPlan("plan-1"), nil)
		env.provider.On("CreateCheckoutSession", mock.MatchedBy(func(p provider.CheckoutParams) bool {
			return p.RestaurantID == "rest-1" && p.PlanID == "plan-1" && p.UserID == "owner-1" &&
				p.Interval == model.IntervalAnnual
		})).Return(&provider.CheckoutSession{SessionID: "cs_123", URL: "https://pay.example/cs_123"}, nil)

		session, err := env.service.CreateCheckout("owner-1", "plan-1")

		assert.NoError(t, err)
		assert.Equal(t, "cs_123", session.SessionID)
		env.provider.AssertExpectations(t)
	})

	t.Run("Caller without a restaurant is rejected", func(t *testing.T) {
		env := newTestEnv()

		env.restaurants.On("GetByOwner", "nobody").Return(nil, gorm.ErrRecordNotFound)

		_, err := env.service.CreateCheckout("nobody", "plan-1")

		assert.ErrorIs(t, err, ErrNotRestaurantOwner)
	})

	t.Run("Inactive plan is rejected", func(t *testing.T) {
		env := newTestEnv()
		restaurant := &restaurantModel.Restaurant{
			BaseModel:   baseModel.BaseModel{ID: "rest-1"},
			OwnerUserID: "owner-1",
		}
		inactive := annualPlan("plan-1")
		inactive.IsActive = false

		env.restaurants.On("GetByOwner", "owner-1").Return(restaurant, nil)
		env.plans.On("GetByID", "plan-1").Return(inactive, nil)

		_, err := env.service.CreateCheckout("owner-1", "plan-1")

		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestHandleWebhook(t *testing.T) {
	payload := []byte(`{}`)

	t.Run("Invalid signature is the only rejected case", func(t *testing.T) {
		env := newTestEnv()

		env.provider.On("ParseWebhook", payload, "bad-sig").Return(nil, provider.ErrInvalidSignature)

		err := env.service.HandleWebhook(payload, "bad-sig")

		assert.ErrorIs(t, err, provider.ErrInvalidSignature)
	})

	t.Run("Checkout completed renews the subscription once", func(t *testing.T) {
		env := newTestEnv()
		expiry := time.Now().AddDate(1, 0, 0)

		env.provider.On("ParseWebhook", payload, "sig").Return(&provider.Event{
			ID:   "evt_1",
			Type: provider.EventCheckoutCompleted,
			Metadata: map[string]string{
				"restaurant_id": "rest-1",
				"plan_id":       "plan-1",
				"user_id":       "owner-1",
			},
			ProviderSubscriptionID: "sub_1",
		}, nil)
		env.subscriptions.On("RecordEvent", "evt_1", provider.EventCheckoutCompleted).Return(true, nil)
		env.plans.On("GetByID", "plan-1").Return(annualPlan("plan-1"), nil)
		env.subscriptions.On("Renew", "rest-1", mock.AnythingOfType("*model.SubscriptionPlan"), "sub_1").Return(&expiry, nil)

		err := env.service.HandleWebhook(payload, "sig")

		assert.NoError(t, err)
		env.subscriptions.AssertNumberOfCalls(t, "Renew", 1)
	})

	t.Run("Duplicate event id is a no-op", func(t *testing.T) {
		env := newTestEnv()

		env.provider.On("ParseWebhook", payload, "sig").Return(&provider.Event{
			ID:   "evt_dup",
			Type: provider.EventCheckoutCompleted,
			Metadata: map[string]string{
				"restaurant_id": "rest-1",
				"plan_id":       "plan-1",
			},
		}, nil)
		env.subscriptions.On("RecordEvent", "evt_dup", provider.EventCheckoutCompleted).Return(false, nil)

		err := env.service.HandleWebhook(payload, "sig")

		assert.NoError(t, err)
		env.subscriptions.AssertNotCalled(t, "Renew", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Payment failed marks status without deactivating", func(t *testing.T) {
		env := newTestEnv()

		env.provider.On("ParseWebhook", payload, "sig").Return(&provider.Event{
			ID:                     "evt_2",
			Type:                   provider.EventInvoicePaymentFailed,
			ProviderSubscriptionID: "sub_1",
		}, nil)
		env.subscriptions.On("RecordEvent", "evt_2", provider.EventInvoicePaymentFailed).Return(true, nil)
		env.subscriptions.On("UpdateStatusByProviderSub", "sub_1",
			restaurantModel.SubscriptionPaymentFailed, false).Return(nil)

		err := env.service.HandleWebhook(payload, "sig")

		assert.NoError(t, err)
		env.subscriptions.AssertExpectations(t)
	})

	t.Run("Subscription deleted cancels and deactivates", func(t *testing.T) {
		env := newTestEnv()

		env.provider.On("ParseWebhook", payload, "sig").Return(&provider.Event{
			ID:                     "evt_3",
			Type:                   provider.EventSubscriptionDeleted,
			ProviderSubscriptionID: "sub_1",
		}, nil)
		env.subscriptions.On("RecordEvent", "evt_3", provider.EventSubscriptionDeleted).Return(true, nil)
		env.subscriptions.On("UpdateStatusByProviderSub", "sub_1",
			restaurantModel.SubscriptionCancelled, true).Return(nil)

		err := env.service.HandleWebhook(payload, "sig")

		assert.NoError(t, err)
		env.subscriptions.AssertExpectations(t)
	})

	t.Run("Processing errors are swallowed and the ledger entry is rolled back", func(t *testing.T) {
		env := newTestEnv()

		env.provider.On("ParseWebhook", payload, "sig").Return(&provider.Event{
			ID:   "evt_4",
			Type: provider.EventCheckoutCompleted,
			Metadata: map[string]string{
				"restaurant_id": "rest-1",
				"plan_id":       "plan-missing",
			},
		}, nil)
		env.subscriptions.On("RecordEvent", "evt_4", provider.EventCheckoutCompleted).Return(true, nil)
		env.plans.On("GetByID", "plan-missing").Return(nil, gorm.ErrRecordNotFound)
		env.subscriptions.On("DeleteEvent", "evt_4").Return(nil)

		err := env.service.HandleWebhook(payload, "sig")

		assert.NoError(t, err)
		env.subscriptions.AssertCalled(t, "DeleteEvent", "evt_4")
	})

	t.Run("Redelivery after a failed attempt is reprocessed", func(t *testing.T) {
		env := newTestEnv()
		expiry := time.Now().AddDate(1, 0, 0)

		env.provider.On("ParseWebhook", payload, "sig").Return(&provider.Event{
			ID:   "evt_retry",
			Type: provider.EventCheckoutCompleted,
			Metadata: map[string]string{
				"restaurant_id": "rest-1",
				"plan_id":       "plan-1",
			},
			ProviderSubscriptionID: "sub_1",
		}, nil)
		// 第一次投递：套餐查询失败，台账回滚
		env.subscriptions.On("RecordEvent", "evt_retry", provider.EventCheckoutCompleted).Return(true, nil)
		env.plans.On("GetByID", "plan-1").Return(nil, gorm.ErrRecordNotFound).Once()
		env.subscriptions.On("DeleteEvent", "evt_retry").Return(nil).Once()

		assert.NoError(t, env.service.HandleWebhook(payload, "sig"))
		env.subscriptions.AssertNotCalled(t, "Renew", mock.Anything, mock.Anything, mock.Anything)

		// 重新投递同一事件号：台账已回滚，续费正常执行
		env.plans.On("GetByID", "plan-1").Return(annualPlan("plan-1"), nil)
		env.subscriptions.On("Renew", "rest-1", mock.AnythingOfType("*model.SubscriptionPlan"), "sub_1").Return(&expiry, nil)

		assert.NoError(t, env.service.HandleWebhook(payload, "sig"))
		env.subscriptions.AssertNumberOfCalls(t, "Renew", 1)
	})

	t.Run("Unrecognized events are acknowledged and skipped", func(t *testing.T) {
		env := newTestEnv()

		env.provider.On("ParseWebhook", payload, "sig").Return(&provider.Event{
			ID:   "evt_5",
			Type: provider.EventIgnored,
		}, nil)

		err := env.service.HandleWebhook(payload, "sig")

		assert.NoError(t, err)
		env.subscriptions.AssertNotCalled(t, "RecordEvent", mock.Anything, mock.Anything)
	})
}

func TestMockProviderCheckout(t *testing.T) {
	p := provider.NewMockProvider()

	session, err := p.CreateCheckoutSession(provider.CheckoutParams{
		SuccessURL: "http://localhost:3000/restaurant/subscription?checkout=success",
	})

	assert.NoError(t, err)
	assert.Contains(t, session.SessionID, "mock_")
	assert.Contains(t, session.URL, "session_id=mock_")
}
