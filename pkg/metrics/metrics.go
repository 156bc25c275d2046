package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках передаётся nil
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	AppointmentsCreated  prometheus.Counter
	AppointmentsRejected *prometheus.CounterVec
	Notifications        *prometheus.CounterVec
	TasksProcessed       *prometheus.CounterVec
	RetentionDeleted     prometheus.Counter
}

// New регистрирует метрики в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в указанном реестре (используется в тестах)
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	f := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		DBOpenConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of open connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUseConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections in use",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdleConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBWaitCount: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),
		AppointmentsCreated: f.NewCounter(prometheus.CounterOpts{
			Name:        "appointments_created_total",
			Help:        "Accepted bookings",
			ConstLabels: constLabels,
		}),
		AppointmentsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_rejected_total",
			Help:        "Rejected bookings by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Notification send attempts",
			ConstLabels: constLabels,
		}, []string{"kind", "outcome"}),
		TasksProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "tasks_processed_total",
			Help:        "Background tasks processed",
			ConstLabels: constLabels,
		}, []string{"name", "outcome"}),
		RetentionDeleted: f.NewCounter(prometheus.CounterOpts{
			Name:        "retention_deleted_total",
			Help:        "Appointments removed by the retention sweep",
			ConstLabels: constLabels,
		}),
	}
}

func (m *Metrics) AppointmentCreated() {
	if m == nil {
		return
	}
	m.AppointmentsCreated.Inc()
}

func (m *Metrics) AppointmentRejected(reason string) {
	if m == nil {
		return
	}
	m.AppointmentsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) NotificationAttempt(kind, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) TaskProcessed(name, outcome string) {
	if m == nil {
		return
	}
	m.TasksProcessed.WithLabelValues(name, outcome).Inc()
}

func (m *Metrics) RetentionSwept(n int) {
	if m == nil {
		return
	}
	m.RetentionDeleted.Add(float64(n))
}
