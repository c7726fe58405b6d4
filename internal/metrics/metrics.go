package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallsTotal tracks RPC calls per chain and endpoint
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_rpc_calls_total",
			Help: "Total number of RPC calls",
		},
		[]string{"chain", "endpoint"},
	)

	// RPCErrorsTotal tracks RPC errors per chain, endpoint and error class
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_rpc_errors_total",
			Help: "Total number of RPC errors",
		},
		[]string{"chain", "endpoint", "class"},
	)

	// RPCLatency tracks RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_rpc_latency_seconds",
			Help:    "RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain", "endpoint"},
	)

	// EndpointsHealthy tracks the number of healthy endpoints per chain
	EndpointsHealthy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "relay_endpoints_healthy",
			Help: "Number of healthy endpoints per chain",
		},
		[]string{"chain"},
	)

	// CircuitBreakerResets tracks failed-set resets per chain
	CircuitBreakerResets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_circuit_breaker_resets_total",
			Help: "Total number of circuit breaker resets",
		},
		[]string{"chain"},
	)

	// TradesTotal tracks processed trade events per chain, side and outcome
	TradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_trades_total",
			Help: "Total number of processed trade events",
		},
		[]string{"chain", "side", "status"},
	)

	// TradeVolume tracks mirrored volume in native units per chain
	TradeVolume = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_trade_volume_total",
			Help: "Total mirrored trade volume in native units",
		},
		[]string{"chain"},
	)

	// NotificationFailures tracks dropped notifications
	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_notification_failures_total",
			Help: "Total number of notification deliveries that failed",
		},
	)
)
