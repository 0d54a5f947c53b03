package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 业务指标
	ordersCreatedTotal    prometheus.Counter
	orderTransitionsTotal *prometheus.CounterVec
	webhookEventsTotal    *prometheus.CounterVec
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector 获取全局指标收集器
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = newMetricsCollector()
	})
	return globalCollector
}

func newMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ordersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created",
			},
		),

		orderTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_total",
				Help: "Total number of order status transitions",
			},
			[]string{"to_status"},
		),

		webhookEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhook_events_total",
				Help: "Total number of payment provider webhook events",
			},
			[]string{"type", "outcome"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, durationSeconds float64) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordOrderCreated 记录订单创建
func (m *MetricsCollector) RecordOrderCreated() {
	m.ordersCreatedTotal.Inc()
}

// RecordOrderTransition 记录订单状态流转
func (m *MetricsCollector) RecordOrderTransition(toStatus string) {
	m.orderTransitionsTotal.WithLabelValues(toStatus).Inc()
}

// RecordWebhookEvent 记录支付回调事件
// outcome: processed / duplicate / error / decode_error / invalid_signature / ignored
func (m *MetricsCollector) RecordWebhookEvent(eventType, outcome string) {
	m.webhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}
