// Package metrics 基于Prometheus的指标收集
//
// 指标类型：
//   - Counter: 只增不减（请求数、借阅次数）
//   - Gauge: 可增可减（处理中的请求数、熔断器状态）
//   - Histogram: 分布（请求耗时、借还流程耗时）
//
// 使用方式：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(metrics.Handler()))
//
// 标签只使用有限取值（method、status、result），不要使用user_id、book_id等高基数字段。
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "library"

// 结果标签取值
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
	ResultRejected = "rejected"
	ResultHit      = "hit"
	ResultMiss     = "miss"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数，标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 借阅业务指标

	// BorrowsTotal 借书次数，标签：result
	BorrowsTotal *prometheus.CounterVec

	// ReturnsTotal 还书次数，标签：result
	ReturnsTotal *prometheus.CounterVec

	// WorkflowDuration 借还流程耗时，标签：operation（borrow/return）
	WorkflowDuration *prometheus.HistogramVec

	// CacheRequestsTotal 缓存命中情况，标签：cache、result（hit/miss）
	CacheRequestsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数，标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// EventsPublishedTotal 事件发布总数，标签：routing_key、result
	EventsPublishedTotal *prometheus.CounterVec

	// EventsConsumedTotal 事件消费总数，标签：queue、result
	EventsConsumedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry，重复调用无副作用
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP请求耗时（秒）",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_progress",
				Help:      "正在处理的HTTP请求数",
			},
		)

		BorrowsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "borrows_total",
				Help:      "借书请求总数",
			},
			[]string{"result"},
		)

		ReturnsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "returns_total",
				Help:      "还书请求总数",
			},
			[]string{"result"},
		)

		WorkflowDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "borrow_workflow_duration_seconds",
				Help:      "借还流程耗时（秒）",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		)

		CacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_requests_total",
				Help:      "缓存查询总数",
			},
			[]string{"cache", "result"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_requests_total",
				Help:      "熔断器请求总数",
			},
			[]string{"name", "result"},
		)

		EventsPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "事件发布总数",
			},
			[]string{"routing_key", "result"},
		)

		EventsConsumedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_consumed_total",
				Help:      "事件消费总数",
			},
			[]string{"queue", "result"},
		)
	})
}

// Handler /metrics端点
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// RecordBorrow 记录一次借书结果
func RecordBorrow(result string, seconds float64) {
	InitMetrics()
	BorrowsTotal.WithLabelValues(result).Inc()
	WorkflowDuration.WithLabelValues("borrow").Observe(seconds)
}

// RecordReturn 记录一次还书结果
func RecordReturn(result string, seconds float64) {
	InitMetrics()
	ReturnsTotal.WithLabelValues(result).Inc()
	WorkflowDuration.WithLabelValues("return").Observe(seconds)
}

// RecordCache 记录缓存命中/未命中
func RecordCache(cache string, hit bool) {
	InitMetrics()
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// RecordPublish 记录事件发布结果
func RecordPublish(routingKey, result string) {
	InitMetrics()
	EventsPublishedTotal.WithLabelValues(routingKey, result).Inc()
}

// RecordConsume 记录事件消费结果
func RecordConsume(queue, result string) {
	InitMetrics()
	EventsConsumedTotal.WithLabelValues(queue, result).Inc()
}
