package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDecision(t *testing.T) {
	m := NewWithRegistry("smc-sports-booking", prometheus.NewRegistry())

	m.RecordDecision("save_reservation", "ok")
	m.RecordDecision("save_reservation", "ok")
	m.RecordDecision("save_reservation", "capacity_exceeded")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("save_reservation", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("save_reservation", "capacity_exceeded")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("delete_activity", "conflict")))
}

func TestNewWithRegistry_Isolated(t *testing.T) {
	// Два набора метрик в разных реестрах не конфликтуют
	assert.NotPanics(t, func() {
		NewWithRegistry("a", prometheus.NewRegistry())
		NewWithRegistry("a", prometheus.NewRegistry())
	})
}
