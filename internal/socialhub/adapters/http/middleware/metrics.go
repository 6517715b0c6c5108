package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"

	"socialhub/internal/socialhub/adapters/http/response"
)

const metricsNamespace = "socialhub"

// Metrics собирает метрики HTTP запросов.
// path - шаблон маршрута, а не фактический путь, чтобы id не раздували число серий.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetrics регистрирует метрики в reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests being served",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering http metrics: %w", err)
		}
	}
	return m, nil
}

// Handler возвращает промежуточное ПО, которое измеряет каждый запрос.
func (m *Metrics) Handler() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			status, _ = response.Classify(err)
		}

		path := ctx.Route().Path
		method := ctx.Method()

		m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}
