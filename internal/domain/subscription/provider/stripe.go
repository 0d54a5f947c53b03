package provider

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeProvider Stripe 托管结算 + 签名回调
type StripeProvider struct {
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{webhookSecret: webhookSecret}
}

// intervalParams 把计费周期映射成 Stripe 的 interval 词表
func intervalParams(interval string) (string, int64) {
	switch interval {
	case "QUARTERLY":
		return "month", 3
	case "SEMIANNUAL":
		return "month", 6
	case "ANNUAL":
		return "year", 1
	default:
		return "month", 1
	}
}

func (p *StripeProvider) CreateCheckoutSession(params CheckoutParams) (*CheckoutSession, error) {
	unit, count := intervalParams(params.Interval)

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(int64(math.Round(params.Price * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.PlanName),
					},
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval:      stripe.String(unit),
						IntervalCount: stripe.Int64(count),
					},
				},
			},
		},
	}
	sessionParams.AddMetadata("restaurant_id", params.RestaurantID)
	sessionParams.AddMetadata("plan_id", params.PlanID)
	sessionParams.AddMetadata("user_id", params.UserID)

	s, err := session.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{SessionID: s.ID, URL: s.URL}, nil
}

func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, ErrInvalidSignature
	}

	event := &Event{ID: stripeEvent.ID}
	switch stripeEvent.Type {
	case "checkout.session.completed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		event.Type = EventCheckoutCompleted
		event.Metadata = cs.Metadata
		if cs.Subscription != nil {
			event.ProviderSubscriptionID = cs.Subscription.ID
		}
	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(stripeEvent.Data.Raw, &invoice); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		event.Type = EventInvoicePaymentFailed
		if invoice.Subscription != nil {
			event.ProviderSubscriptionID = invoice.Subscription.ID
		}
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		event.Type = EventSubscriptionDeleted
		event.ProviderSubscriptionID = sub.ID
	default:
		event.Type = EventIgnored
	}
	return event, nil
}
