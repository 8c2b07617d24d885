//go:build !js
// +build !js

package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry *prometheus.Registry

	renders       *prometheus.CounterVec
	renderSeconds prometheus.Histogram
	renderSamples prometheus.Histogram
	requests      *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pfxr_renders_total",
			Help: "Sounds served, by parameter source and cache hit.",
		}, []string{"source", "cached"}),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pfxr_render_seconds",
			Help:    "Time to synthesize and encode one sound.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		renderSamples: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pfxr_render_samples",
			Help:    "Samples per rendered sound.",
			Buckets: prometheus.LinearBuckets(0, 22050, 9),
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pfxr_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"path", "code"}),
	}

	m.registry.MustRegister(
		m.renders,
		m.renderSeconds,
		m.renderSamples,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
