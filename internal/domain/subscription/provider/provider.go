package provider

import "errors"

// ErrInvalidSignature 回调签名校验失败，是唯一允许拒收回调的错误
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// 归一化后的事件类型，屏蔽支付方的事件命名
const (
	EventCheckoutCompleted    = "checkout_completed"
	EventInvoicePaymentFailed = "invoice_payment_failed"
	EventSubscriptionDeleted  = "subscription_deleted"
	EventIgnored              = "ignored"
)

// CheckoutParams 托管结算页创建参数
type CheckoutParams struct {
	PlanName string
	Price    float64
	Currency string
	Interval string // MONTHLY | QUARTERLY | SEMIANNUAL | ANNUAL

	// 作为不透明元数据随会话往返
	RestaurantID string
	PlanID       string
	UserID       string

	SuccessURL string
	CancelURL  string
}

// CheckoutSession 托管结算会话
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// Event 归一化后的回调事件
type Event struct {
	ID                     string
	Type                   string
	Metadata               map[string]string
	ProviderSubscriptionID string
}

// Provider 支付方适配接口
type Provider interface {
	CreateCheckoutSession(params CheckoutParams) (*CheckoutSession, error)
	// ParseWebhook 校验签名并归一化事件，签名非法返回 ErrInvalidSignature
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
