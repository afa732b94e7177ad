// Package metrics exposes the bot's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/m3rciful/cafebot/internal/conversation"
)

const namespace = "cafebot"

// Metrics holds the bot's counters. It satisfies conversation.Observer and
// the update observer of the Telegram middleware chain.
type Metrics struct {
	FlowsStarted   *prometheus.CounterVec
	FlowsCompleted *prometheus.CounterVec
	FlowsCancelled *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
	Updates        *prometheus.CounterVec
	Sends          *prometheus.CounterVec
}

var _ conversation.Observer = (*Metrics)(nil)

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FlowsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flows_started_total",
			Help:      "Conversations started, by flow.",
		}, []string{"flow"}),
		FlowsCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flows_completed_total",
			Help:      "Conversations completed, by flow.",
		}, []string{"flow"}),
		FlowsCancelled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flows_cancelled_total",
			Help:      "Conversations cancelled, by flow.",
		}, []string{"flow"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Operator notifications handed to the sender, by flow and result. result=accepted means queued or sent inline, not delivered; delivery of queued messages is counted by async_sends_total.",
		}, []string{"flow", "result"}),
		Updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Telegram updates processed, by kind and result.",
		}, []string{"kind", "result"}),
		Sends: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "async_sends_total",
			Help:      "Background Telegram sends finished, by action and result.",
		}, []string{"action", "result"}),
	}
}

func result(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

// FlowStarted counts a started flow.
func (m *Metrics) FlowStarted(flow conversation.Flow) {
	m.FlowsStarted.WithLabelValues(string(flow)).Inc()
}

// FlowCompleted counts a completed flow.
func (m *Metrics) FlowCompleted(flow conversation.Flow) {
	m.FlowsCompleted.WithLabelValues(string(flow)).Inc()
}

// FlowCancelled counts a cancelled flow.
func (m *Metrics) FlowCancelled(flow conversation.Flow) {
	m.FlowsCancelled.WithLabelValues(string(flow)).Inc()
}

// NotifyResult counts an operator notification hand-off.
func (m *Metrics) NotifyResult(flow conversation.Flow, err error) {
	outcome := "accepted"
	if err != nil {
		outcome = "fail"
	}
	m.Notifications.WithLabelValues(string(flow), outcome).Inc()
}

// ObserveUpdate counts a processed update.
func (m *Metrics) ObserveUpdate(kind string, err error) {
	m.Updates.WithLabelValues(kind, result(err)).Inc()
}

// SendResult counts a finished background send.
func (m *Metrics) SendResult(action string, err error) {
	m.Sends.WithLabelValues(action, result(err)).Inc()
}
