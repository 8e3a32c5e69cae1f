//go:build small
// +build small

// Copyright 2017 The WPT Dashboard Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewObserver(reg)
	require.NoError(t, err)

	o.ObserveTransition("Open Login Page", "warned", 15*time.Second)
	o.ObserveTransition("Navigate to Help", "warned", 11*time.Second)
	o.ObserveTransition("Navigate to Help", "within-threshold", -time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(o.transitions.WithLabelValues("warned")))
	assert.Equal(t, float64(1), testutil.ToFloat64(o.transitions.WithLabelValues("within-threshold")))
	assert.Equal(t, 3, testutil.CollectAndCount(o.seconds))
}

func TestNewObserver_duplicate_registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewObserver(reg)
	require.NoError(t, err)
	_, err = NewObserver(reg)
	assert.NotNil(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := NewObserver(reg)
	require.NoError(t, err)
	o.ObserveTransition("Open Login Page", "failed-timeout", 61*time.Second)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `portal_bdd_transitions_total{outcome="failed-timeout"} 1`)
}
