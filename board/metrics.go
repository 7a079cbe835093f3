package board

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mergington/activityboard/clients/activityclient"
	"github.com/mergington/activityboard/metrics"
)

const (
	actionLoad       = "load"
	actionSignup     = "signup"
	actionUnregister = "unregister"

	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Metrics records board activity. A nil *Metrics records nothing.
type Metrics struct {
	actions    metrics.CounterVec
	activities metrics.Gauge
}

// NewMetrics registers the board metrics with reg.
func NewMetrics(reg metrics.Registry) (*Metrics, error) {
	actions, err := reg.NewCounterVec(prometheus.CounterOpts{
		Name: "board_actions_total",
		Help: "Board operations by action and outcome.",
	}, []string{"action", "outcome"})
	if err != nil {
		return nil, fmt.Errorf("creating actions counter: %w", err)
	}

	activities, err := reg.NewGauge(prometheus.GaugeOpts{
		Name: "board_activities",
		Help: "Number of activities shown after the last successful load.",
	})
	if err != nil {
		return nil, fmt.Errorf("creating activities gauge: %w", err)
	}

	return &Metrics{actions: actions, activities: activities}, nil
}

func (m *Metrics) observe(action, outcome string) {
	if m == nil {
		return
	}
	m.actions.With(prometheus.Labels{"action": action, "outcome": outcome}).Inc()
}

func (m *Metrics) setActivities(n int) {
	if m == nil {
		return
	}
	m.activities.Set(float64(n))
}

// outcomeOf classifies err: nil is a success, an API error is a rejection by
// the server, anything else is a failure to get a usable answer.
func outcomeOf(err error) string {
	var apiErr *activityclient.APIError
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.As(err, &apiErr):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
