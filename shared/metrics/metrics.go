// Copyright 2017 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package metrics exports timed-transition outcomes to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer implements shared.TransitionObserver on Prometheus collectors.
type Observer struct {
	transitions *prometheus.CounterVec
	seconds     *prometheus.HistogramVec
}

// NewObserver creates the collectors and registers them on reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "portal_bdd",
				Name:      "transitions_total",
				Help:      "Timed UI transitions, partitioned by outcome.",
			},
			[]string{"outcome"},
		),
		seconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "portal_bdd",
				Name:      "transition_seconds",
				Help:      "Time from UI action to destination readiness.",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60, 90},
			},
			[]string{"label", "outcome"},
		),
	}
	for _, collector := range []prometheus.Collector{o.transitions, o.seconds} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// ObserveTransition records one classified transition.
func (o *Observer) ObserveTransition(label, outcome string, elapsed time.Duration) {
	o.transitions.WithLabelValues(outcome).Inc()
	if elapsed < 0 {
		elapsed = 0
	}
	o.seconds.WithLabelValues(label, outcome).Observe(elapsed.Seconds())
}

// Handler serves the collectors gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
