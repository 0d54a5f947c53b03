package provider

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MockProvider 未配置支付密钥时的本地替身
// 结算直接跳成功页，回调不校验签名，只用于开发环境
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) CreateCheckoutSession(params CheckoutParams) (*CheckoutSession, error) {
	sessionID := "mock_" + uuid.New().String()
	return &CheckoutSession{
		SessionID: sessionID,
		URL:       fmt.Sprintf("%s?session_id=%s", params.SuccessURL, sessionID),
	}, nil
}

// mockEnvelope 开发环境手工投递的事件格式
type mockEnvelope struct {
	ID                     string            `json:"id"`
	Type                   string            `json:"type"`
	Metadata               map[string]string `json:"metadata"`
	ProviderSubscriptionID string            `json:"providerSubscriptionId"`
}

func (p *MockProvider) ParseWebhook(payload []byte, signature string) (*Event, error) {
	var envelope mockEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, ErrInvalidSignature
	}
	if envelope.ID == "" || envelope.Type == "" {
		return nil, ErrInvalidSignature
	}
	return &Event{
		ID:                     envelope.ID,
		Type:                   envelope.Type,
		Metadata:               envelope.Metadata,
		ProviderSubscriptionID: envelope.ProviderSubscriptionID,
	}, nil
}
