// Package metrics 提供基于Prometheus的指标收集
//
// 指标分类：
// 1. Counter（计数器）：只增不减的累计值（如预留请求总数）
// 2. Gauge（仪表盘）：可增可减的瞬时值（如活跃预留数）
// 3. Histogram（直方图）：观测值的分布（如操作耗时的P50/P99）
//
// 命名规范：
// - Counter以_total结尾
// - Histogram以单位结尾（_seconds）
// - Gauge使用现在时态
//
// 标签注意事项：避免高基数标签（不要用product_id做标签，用operation/result）
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/inventory）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// 库存账本指标

	// InventoryOperationsTotal 账本操作总数（Counter）
	// 标签：operation（reserve/release/adjust）、result（success/insufficient/not_found/conflict/error）
	InventoryOperationsTotal *prometheus.CounterVec

	// InventoryOperationDuration 账本操作耗时（Histogram）
	// 标签：operation
	InventoryOperationDuration *prometheus.HistogramVec

	// LowStockAlertsTotal 低库存告警总数（Counter）
	// 标签：level（warning/critical/urgent）
	LowStockAlertsTotal *prometheus.CounterVec

	// 预留指标

	// ReservationsExpiredTotal 清理协程标记过期的预留总数（Counter）
	ReservationsExpiredTotal prometheus.Counter

	// ActiveReservations 当前活跃预留数（Gauge，后台定时刷新）
	ActiveReservations prometheus.Gauge

	// InventoryRecords 库存记录总数（Gauge，后台定时刷新）
	InventoryRecords prometheus.Gauge

	// ActiveLocations 活跃库位总数（Gauge，后台定时刷新）
	ActiveLocations prometheus.Gauge

	// 事件指标

	// EventsPublishedTotal 已发布事件总数（Counter）
	// 标签：topic、result（success/failure）
	EventsPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有指标
// 必须在使用任何指标前调用（通常在main中）
func InitMetrics() {
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	InventoryOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_operations_total",
			Help: "库存账本操作总数",
		},
		[]string{"operation", "result"},
	)

	InventoryOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_operation_duration_seconds",
			Help:    "库存账本操作耗时（秒）",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	LowStockAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_low_stock_alerts_total",
			Help: "低库存告警总数",
		},
		[]string{"level"},
	)

	ReservationsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_reservations_expired_total",
			Help: "清理协程标记过期的预留总数",
		},
	)

	ActiveReservations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_active_reservations",
			Help: "当前活跃预留数",
		},
	)

	InventoryRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_records",
			Help: "库存记录总数",
		},
	)

	ActiveLocations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_active_locations",
			Help: "活跃库位总数",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_events_published_total",
			Help: "已发布事件总数",
		},
		[]string{"topic", "result"},
	)
}

// ObserveOperation 记录一次账本操作的结果与耗时
// result取值：success / insufficient / not_found / conflict / error
func ObserveOperation(operation, result string, seconds float64) {
	if !initialized {
		return
	}
	InventoryOperationsTotal.WithLabelValues(operation, result).Inc()
	InventoryOperationDuration.WithLabelValues(operation).Observe(seconds)
}

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path, status string, seconds float64) {
	if !initialized {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// IncEventPublished 记录一次事件发布结果
func IncEventPublished(topic, result string) {
	if !initialized {
		return
	}
	EventsPublishedTotal.WithLabelValues(topic, result).Inc()
}

// IncLowStockAlert 记录一次低库存告警
func IncLowStockAlert(level string) {
	if !initialized {
		return
	}
	LowStockAlertsTotal.WithLabelValues(level).Inc()
}

// IncReservationExpired 记录一次预留过期回收
func IncReservationExpired() {
	if !initialized {
		return
	}
	ReservationsExpiredTotal.Inc()
}

// SetInventoryRecords 更新库存记录总数Gauge
func SetInventoryRecords(count int64) {
	if !initialized {
		return
	}
	InventoryRecords.Set(float64(count))
}

// SetActiveReservations 更新活跃预留数Gauge
func SetActiveReservations(count int64) {
	if !initialized {
		return
	}
	ActiveReservations.Set(float64(count))
}

// SetActiveLocations 更新活跃库位数Gauge
func SetActiveLocations(count int64) {
	if !initialized {
		return
	}
	ActiveLocations.Set(float64(count))
}
