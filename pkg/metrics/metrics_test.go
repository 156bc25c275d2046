package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "barbershop")

	m.AppointmentCreated()
	m.AppointmentRejected("slot_taken")
	m.AppointmentRejected("slot_taken")
	m.RetentionSwept(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppointmentsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AppointmentsRejected.WithLabelValues("slot_taken")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RetentionDeleted))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AppointmentCreated()
		m.AppointmentRejected("x")
		m.NotificationAttempt("confirmation", "sent")
		m.TaskProcessed("retention_sweep", "done")
		m.RetentionSwept(1)
	})
}
