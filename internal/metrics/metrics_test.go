package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/cafebot/internal/conversation"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.FlowStarted(conversation.FlowBooking)
	m.FlowStarted(conversation.FlowBooking)
	m.FlowCompleted(conversation.FlowBooking)
	m.FlowCancelled(conversation.FlowFeedback)
	m.NotifyResult(conversation.FlowBooking, nil)
	m.NotifyResult(conversation.FlowFeedback, errors.New("queue closed"))
	m.ObserveUpdate("callback", nil)
	m.SendResult("notify.booking", errors.New("timeout"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FlowsStarted.WithLabelValues("booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FlowsCompleted.WithLabelValues("booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FlowsCancelled.WithLabelValues("feedback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("booking", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("feedback", "fail")))
	// a queued notification is accepted, never reported as delivered
	assert.Zero(t, testutil.ToFloat64(m.Notifications.WithLabelValues("booking", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Updates.WithLabelValues("callback", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sends.WithLabelValues("notify.booking", "fail")))
}

func TestServerEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.FlowStarted(conversation.FlowFeedback)

	healthy := true
	srv := NewServer("127.0.0.1:0", reg, func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("redis down")
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `cafebot_flows_started_total{flow="feedback"} 1`))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	healthy = false
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServerStartShutdown(t *testing.T) {
	srv := NewServer("127.0.0.1:0", prometheus.NewRegistry(), nil)
	require.NoError(t, srv.Start())
	require.NoError(t, srv.Shutdown(context.Background()))
}
