package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("grooming", prometheus.NewRegistry())

	m.ObserveHTTP("GET", "/api/v1/slots/available", 200, 15*time.Millisecond)
	m.ObserveQuery("QueryContext", errors.New("boom"), time.Millisecond)
	m.IncAppointmentCreated("client")
	m.IncAdmissionConflict("slot_taken")
	m.IncAdmissionConflict("slot_taken")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/slots/available", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("QueryContext", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppointmentsCreated.WithLabelValues("client")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AdmissionConflicts.WithLabelValues("slot_taken")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.IncSlotQuery("ok")
		m.IncReservation("busy")
	})
}
