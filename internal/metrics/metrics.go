// Package metrics 服务级 Prometheus 指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 所有指标注册在独立的 Registry 上, 便于测试时多次创建
type Metrics struct {
	registry      *prometheus.Registry
	Redirects     *prometheus.CounterVec
	LinksCreated  *prometheus.CounterVec
	BotRequests   *prometheus.CounterVec
	ClicksDropped prometheus.Counter
}

// New 创建并注册指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkwrap",
			Name:      "redirects_total",
			Help:      "Redirect requests by route and outcome.",
		}, []string{"route", "outcome"}),
		LinksCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkwrap",
			Name:      "links_created_total",
			Help:      "Wrapped links created by kind.",
		}, []string{"kind"}),
		BotRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkwrap",
			Name:      "bot_requests_total",
			Help:      "Requests classified as bots by category.",
		}, []string{"category", "blocked"}),
		ClicksDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linkwrap",
			Name:      "clicks_dropped_total",
			Help:      "Click events dropped because the queue was full or stopped.",
		}),
	}
	reg.MustRegister(
		m.Redirects,
		m.LinksCreated,
		m.BotRequests,
		m.ClicksDropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Redirect 记录一次跳转结果
func (m *Metrics) Redirect(route, outcome string) {
	if m == nil {
		return
	}
	m.Redirects.WithLabelValues(route, outcome).Inc()
}

// Created 记录新建短链
func (m *Metrics) Created(kind string) {
	if m == nil {
		return
	}
	m.LinksCreated.WithLabelValues(kind).Inc()
}

// Bot 记录爬虫请求
func (m *Metrics) Bot(category string, blocked bool) {
	if m == nil {
		return
	}
	b := "false"
	if blocked {
		b = "true"
	}
	m.BotRequests.WithLabelValues(category, b).Inc()
}

// ClickDropped 记录丢弃的点击
func (m *Metrics) ClickDropped() {
	if m == nil {
		return
	}
	m.ClicksDropped.Inc()
}
