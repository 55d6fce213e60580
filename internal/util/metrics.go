package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order creations",
	}, []string{"reason"})

	OrderItemsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_items_dropped_total",
		Help: "Total cart lines dropped at order creation because the product vanished",
	})

	CheckoutSessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Total number of gateway checkout sessions created",
	})

	CheckoutFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of failed checkout session creations",
	}, []string{"reason"})

	PaymentStatusChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_status_checks_total",
		Help: "Total payment status polls, split by fast (stored paid) and slow (gateway) path",
	}, []string{"path"})

	PaymentsSettledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_settled_total",
		Help: "Total settlements applied, by origin (poll or webhook)",
	}, []string{"origin"})

	TransactionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transactions_expired_total",
		Help: "Total pending transactions abandoned by the expiry sweeper",
	})

	GatewayRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_latency_seconds",
		Help:    "Latency of payment gateway calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_cache_hits_total",
		Help: "Product cache lookups by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
