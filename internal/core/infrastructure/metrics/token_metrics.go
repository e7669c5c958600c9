// Package metrics 代币访问层的 Prometheus 指标
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 结果标签取值
const (
	ResultSuccess  = "success"
	ResultFailed   = "failed"
	ResultNoMatch  = "no_match"
	ResultCacheHit = "cache_hit"
)

// TokenMetrics 注册表与分发器的指标
// 所有方法对 nil 接收者安全
type TokenMetrics struct {
	probes        *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	decodes       *prometheus.CounterVec
	binds         *prometheus.CounterVec
}

// NewTokenMetrics 创建指标并注册到 reg；reg 为 nil 时只创建不注册
func NewTokenMetrics(reg prometheus.Registerer) (*TokenMetrics, error) {
	m := &TokenMetrics{
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokens",
			Subsystem: "registry",
			Name:      "probes_total",
			Help:      "Total number of standard probes",
		}, []string{"adapter", "result"}), // result: success/failed/cache_hit

		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tokens",
			Subsystem: "registry",
			Name:      "probe_duration_seconds",
			Help:      "Duration of standard probes",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms ~ 5.12s
		}, []string{"adapter"}),

		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokens",
			Subsystem: "dispatcher",
			Name:      "decode_total",
			Help:      "Total number of call decode attempts",
		}, []string{"encoding", "result"}), // result: success/no_match

		binds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokens",
			Subsystem: "dispatcher",
			Name:      "bind_total",
			Help:      "Total number of adapter bindings",
		}, []string{"adapter", "result"}),
	}

	if reg != nil {
		var err error
		if m.probes, err = register(reg, m.probes); err != nil {
			return nil, err
		}
		if m.probeDuration, err = register(reg, m.probeDuration); err != nil {
			return nil, err
		}
		if m.decodes, err = register(reg, m.decodes); err != nil {
			return nil, err
		}
		if m.binds, err = register(reg, m.binds); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// register 注册采集器；已注册时复用已有实例
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordProbe 记录一次探测
func (m *TokenMetrics) RecordProbe(adapter, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.probes.WithLabelValues(adapter, result).Inc()
	if result != ResultCacheHit {
		m.probeDuration.WithLabelValues(adapter).Observe(duration.Seconds())
	}
}

// RecordDecode 记录一次调用解码
func (m *TokenMetrics) RecordDecode(encoding string, matched bool) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if !matched {
		result = ResultNoMatch
	}
	m.decodes.WithLabelValues(encoding, result).Inc()
}

// RecordBind 记录一次适配器绑定
func (m *TokenMetrics) RecordBind(adapter string, success bool) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if !success {
		result = ResultFailed
	}
	m.binds.WithLabelValues(adapter, result).Inc()
}
