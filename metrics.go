// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simcir

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors updated by event queues and
// circuits. A single Metrics value can be shared by any number of queues.
//
type Metrics struct {
	EventsDelivered prometheus.Counter
	Batches         prometheus.Counter
	Drains          prometheus.Counter
	BudgetExhausted prometheus.Counter
	Unsettled       prometheus.Counter
	DrainDuration   prometheus.Histogram
	Pending         prometheus.Gauge
	Devices         *prometheus.GaugeVec
}

// NewMetrics creates the simulator collectors and registers them with reg.
//
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsDelivered: f.NewCounter(prometheus.CounterOpts{
			Name: "simcir_events_delivered_total",
			Help: "Total number of node change events delivered to listeners",
		}),
		Batches: f.NewCounter(prometheus.CounterOpts{
			Name: "simcir_batches_total",
			Help: "Total number of event batches delivered",
		}),
		Drains: f.NewCounter(prometheus.CounterOpts{
			Name: "simcir_drains_total",
			Help: "Total number of queue drains",
		}),
		BudgetExhausted: f.NewCounter(prometheus.CounterOpts{
			Name: "simcir_drain_budget_exhausted_total",
			Help: "Number of drains that stopped with events still pending",
		}),
		Unsettled: f.NewCounter(prometheus.CounterOpts{
			Name: "simcir_flush_unsettled_total",
			Help: "Number of flushes that hit the batch limit",
		}),
		DrainDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "simcir_drain_duration_seconds",
			Help:    "Duration of queue drains in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .02, .04, .08},
		}),
		Pending: f.NewGauge(prometheus.GaugeOpts{
			Name: "simcir_events_pending",
			Help: "Number of events pending after the last drain",
		}),
		Devices: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "simcir_devices",
			Help: "Number of live device instances",
		}, []string{"type"}),
	}
}
