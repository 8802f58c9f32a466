package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	handsDealtCounter         prometheus.Counter
	actionsAppliedCounter     prometheus.Counter
	validationRejectedCounter prometheus.Counter
	timeoutsCounter           prometheus.Counter
	tablesCrashedCounter      prometheus.Counter
	activeTablesGauge         prometheus.Gauge
}

func (m *metrics) HandDealt() {
	m.handsDealtCounter.Inc()
}

func (m *metrics) ActionApplied() {
	m.actionsAppliedCounter.Inc()
}

func (m *metrics) ValidationRejected() {
	m.validationRejectedCounter.Inc()
}

func (m *metrics) TimeoutFired() {
	m.timeoutsCounter.Inc()
}

func (m *metrics) TableCrashed() {
	m.tablesCrashedCounter.Inc()
}

func (m *metrics) SetActiveTables(count int) {
	m.activeTablesGauge.Set(float64(count))
}

var Metrics = &metrics{
	handsDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hands_dealt_total",
		Help: "Total number of hands initialized",
	}),
	actionsAppliedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "bet_actions_applied_total",
		Help: "Total number of betting actions applied, including timeout auto-actions",
	}),
	validationRejectedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "events_rejected_total",
		Help: "Total number of inbound events rejected by validation",
	}),
	timeoutsCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "stage_timeouts_total",
		Help: "Total number of stage timeouts delivered to table loops",
	}),
	tablesCrashedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "tables_crashed_total",
		Help: "Total number of tables stopped by an invariant violation",
	}),
	activeTablesGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_tables_count",
		Help: "Count of tables in the table manager",
	}),
}
