package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	maintenanceTicksTotal      prometheus.Counter
	maintenanceTickErrorsTotal prometheus.Counter
	holdsExpiredTotal          prometheus.Counter
	remindersSentTotal         *prometheus.CounterVec
	notificationErrorsTotal    prometheus.Counter
}

// New регистрирует и возвращает метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		maintenanceTicksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "maintenance_ticks_total",
			Help:        "Total number of maintenance passes",
			ConstLabels: constLabels,
		}),

		maintenanceTickErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "maintenance_tick_errors_total",
			Help:        "Total number of failed maintenance passes",
			ConstLabels: constLabels,
		}),

		holdsExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "holds_expired_total",
			Help:        "Total number of holds auto-rejected by expiry",
			ConstLabels: constLabels,
		}),

		remindersSentTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_sent_total",
			Help:        "Total number of reminders queued, by kind",
			ConstLabels: constLabels,
		}, []string{"kind"}),

		notificationErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "notification_send_errors_total",
			Help:        "Total number of failed notification dispatches",
			ConstLabels: constLabels,
		}),
	}
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncMaintenanceTick фиксирует выполненный maintenance-проход
func (m *Metrics) IncMaintenanceTick() {
	m.maintenanceTicksTotal.Inc()
}

// IncMaintenanceTickError фиксирует проваленный maintenance-проход
func (m *Metrics) IncMaintenanceTickError() {
	m.maintenanceTickErrorsTotal.Inc()
}

// IncHoldExpired фиксирует автоматически отклоненную заявку
func (m *Metrics) IncHoldExpired() {
	m.holdsExpiredTotal.Inc()
}

// IncReminderSent фиксирует поставленное в очередь напоминание
func (m *Metrics) IncReminderSent(kind string) {
	m.remindersSentTotal.WithLabelValues(kind).Inc()
}

// IncNotificationError фиксирует ошибку отправки уведомления
func (m *Metrics) IncNotificationError() {
	m.notificationErrorsTotal.Inc()
}
