package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler interface {
	IncrementConnection(streamType string)
	DecrementConnection(streamType string)

	HttpHandler() http.Handler
}

type handler struct {
	registry           *prometheus.Registry
	responseTime       *prometheus.HistogramVec
	merakiResponseTime *prometheus.HistogramVec
	connections        *prometheus.GaugeVec
}

func NewHandler() Handler {
	reg := prometheus.NewRegistry()

	respTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wcg",
		Name:      "http_request_duration_seconds",
		Help:      "Histogram of HTTP response time in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	merakiRespTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wcg",
		Name:      "meraki_http_request_duration_seconds",
		Help:      "Histogram of Meraki API HTTP response time in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})

	connections := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wcg",
		Name:      "stream_connections",
		Help:      "Number of active client connections per stream.",
	}, []string{"type"})

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		respTime,
		merakiRespTime,
		connections,
	)

	return &handler{
		registry:           reg,
		responseTime:       respTime,
		merakiResponseTime: merakiRespTime,
		connections:        connections,
	}
}

func (h *handler) HttpHandler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{Registry: h.registry})
}

func (h *handler) IncrementConnection(streamType string) {
	h.connections.WithLabelValues(streamType).Inc()
}

func (h *handler) DecrementConnection(streamType string) {
	h.connections.WithLabelValues(streamType).Dec()
}
