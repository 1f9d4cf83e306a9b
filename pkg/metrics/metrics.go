package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all collectors of the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	SlotQueriesTotal      *prometheus.CounterVec
	AppointmentsCreated   *prometheus.CounterVec
	AdmissionConflicts    *prometheus.CounterVec
	ReservationContention *prometheus.CounterVec
}

// New registers collectors on the default registry.
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry registers collectors on reg. Tests pass a fresh registry.
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries.",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency.",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool.",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use.",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle connections in the pool.",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for.",
			ConstLabels: constLabels,
		}, []string{"db"}),
		SlotQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_queries_total",
			Help:        "Slot availability computations by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		AppointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_created_total",
			Help:        "Appointments created by source (client, admin).",
			ConstLabels: constLabels,
		}, []string{"source"}),
		AdmissionConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_admission_conflicts_total",
			Help:        "Bookings rejected because the slot was taken.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		ReservationContention: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_reservation_contention_total",
			Help:        "Slot reservation attempts that found the bucket held.",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.SlotQueriesTotal,
		m.AppointmentsCreated,
		m.AdmissionConflicts,
		m.ReservationContention,
	)

	return m
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveQuery records one database call.
func (m *Metrics) ObserveQuery(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueriesTotal.WithLabelValues(operation, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncSlotQuery counts a slot computation (ok, closed, error).
func (m *Metrics) IncSlotQuery(outcome string) {
	if m == nil {
		return
	}
	m.SlotQueriesTotal.WithLabelValues(outcome).Inc()
}

// IncAppointmentCreated counts a committed booking.
func (m *Metrics) IncAppointmentCreated(source string) {
	if m == nil {
		return
	}
	m.AppointmentsCreated.WithLabelValues(source).Inc()
}

// IncAdmissionConflict counts a booking rejected by admission.
func (m *Metrics) IncAdmissionConflict(reason string) {
	if m == nil {
		return
	}
	m.AdmissionConflicts.WithLabelValues(reason).Inc()
}

// IncReservation counts reservation outcomes (acquired, busy).
func (m *Metrics) IncReservation(result string) {
	if m == nil {
		return
	}
	m.ReservationContention.WithLabelValues(result).Inc()
}
