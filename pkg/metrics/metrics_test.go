package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化（重复调用不应panic）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	if HTTPRequestsTotal == nil || HTTPRequestDuration == nil || HTTPRequestsInProgress == nil {
		t.Fatal("HTTP指标未初始化")
	}
	if BookOperationsTotal == nil || BookListCacheRequests == nil {
		t.Fatal("业务指标未初始化")
	}
	if CircuitBreakerState == nil || MessagesPublishedTotal == nil {
		t.Fatal("基础设施指标未初始化")
	}
}

// TestRecordBookOperation 测试图书操作计数
func TestRecordBookOperation(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"operation": "create", "result": ResultRejected}
	before := getCounterVecValue(t, BookOperationsTotal, labels)

	RecordBookOperation("create", ResultRejected)
	RecordBookOperation("create", ResultRejected)
	RecordBookOperation("create", ResultSuccess)

	after := getCounterVecValue(t, BookOperationsTotal, labels)
	if after-before != 2 {
		t.Errorf("rejected计数错误: expected=2, got=%f", after-before)
	}
}

// TestRecordListCache 测试缓存命中计数
func TestRecordListCache(t *testing.T) {
	InitMetrics()

	hit := map[string]string{"result": CacheHit}
	miss := map[string]string{"result": CacheMiss}
	hitBefore := getCounterVecValue(t, BookListCacheRequests, hit)
	missBefore := getCounterVecValue(t, BookListCacheRequests, miss)

	RecordListCache(CacheHit)
	RecordListCache(CacheMiss)
	RecordListCache(CacheHit)

	if got := getCounterVecValue(t, BookListCacheRequests, hit) - hitBefore; got != 2 {
		t.Errorf("hit计数错误: expected=2, got=%f", got)
	}
	if got := getCounterVecValue(t, BookListCacheRequests, miss) - missBefore; got != 1 {
		t.Errorf("miss计数错误: expected=1, got=%f", got)
	}
}

// TestRecordBreakerState 测试熔断器状态Gauge
func TestRecordBreakerState(t *testing.T) {
	InitMetrics()

	RecordBreakerState("redis-list-cache", 1)
	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "redis-list-cache"}); v != 1 {
		t.Errorf("熔断器状态错误: expected=1, got=%f", v)
	}

	RecordBreakerState("redis-list-cache", 0)
	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "redis-list-cache"}); v != 0 {
		t.Errorf("熔断器状态错误: expected=0, got=%f", v)
	}
}

// TestGauge 测试处理中请求数
func TestGauge(t *testing.T) {
	InitMetrics()
	SetGauge(HTTPRequestsInProgress, 0)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 1 {
		t.Errorf("Gauge值错误: expected=1, got=%f", v)
	}
	SetGauge(HTTPRequestsInProgress, 0)
}

// TestHistogramVec 测试请求耗时分布
func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"method": "PUT", "path": "/books/:title"}
	before := getHistogramVecCount(t, HTTPRequestDuration, labels)

	ObserveHistogramVec(HTTPRequestDuration, labels, 0.002)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.02)
	ObserveHistogramVec(HTTPRequestDuration, map[string]string{"method": "GET", "path": "/books/"}, 0.01)

	if got := getHistogramVecCount(t, HTTPRequestDuration, labels) - before; got != 2 {
		t.Errorf("HistogramVec观测次数错误: expected=2, got=%d", got)
	}
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	counter := counterVec.With(labels)
	if err := counter.(prometheus.Counter).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	gauge := gaugeVec.With(labels)
	if err := gauge.(prometheus.Gauge).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
