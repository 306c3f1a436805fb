// Package metrics содержит метрики Prometheus сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "usi_gateway"

// Metrics хранит метрики приложения и собственный реестр.
// Методы безопасно вызывать на nil.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP запросы по методу, шаблону маршрута и коду ответа
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Результаты проверок: mode "single" или "bulk", status из ответа сервиса
	Verifications *prometheus.CounterVec

	// Записи пакета, пропущенные из-за некорректного имени
	BulkSkipped prometheus.Counter

	// Вызовы внешнего сервиса по операции и исходу
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// New создает метрики и регистрирует их в новом реестре
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Total USI verification results by mode and status",
		}, []string{"mode", "status"}),

		BulkSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_skipped_entries_total",
			Help:      "Total bulk entries skipped because no usable name was supplied",
		}),

		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total calls to the USI service by operation and outcome",
		}, []string{"operation", "outcome"}),

		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of calls to the USI service by operation",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
	}
}

// Handler отдает метрики в формате Prometheus.
// Сжатие выполняет общий gzip middleware.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry:           m.registry,
		DisableCompression: true,
	})
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTP учитывает обработанный HTTP запрос
func (m *Metrics) ObserveHTTP(method, route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncrementVerification учитывает один результат проверки
func (m *Metrics) IncrementVerification(mode, status string) {
	if m != nil {
		m.Verifications.WithLabelValues(mode, status).Inc()
	}
}

// AddBulkSkipped учитывает пропущенные записи пакета
func (m *Metrics) AddBulkSkipped(n int) {
	if m != nil && n > 0 {
		m.BulkSkipped.Add(float64(n))
	}
}

// ObserveUpstream учитывает вызов внешнего сервиса
func (m *Metrics) ObserveUpstream(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(operation).Observe(d.Seconds())
}
