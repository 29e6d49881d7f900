package observe

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zeebo/xxh3"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stateshaft_dispatch_total",
		Help: "Handler dispatches by machine kind, state and outcome (success or error)",
	}, []string{"kind", "state", "outcome"})

	dispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stateshaft_dispatch_duration_seconds",
		Help:    "Duration of handler dispatch by machine kind and outcome",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"kind", "outcome"})

	stateChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stateshaft_state_changes_total",
		Help: "Current-state changes by machine kind and hashed machine id",
	}, []string{"kind", "machine"})
)

// MachineLabel shortens a machine id to an 8 character hash for use as a
// metric label.
func MachineLabel(id string) string {
	if id == "" {
		return "unknown"
	}

	return fmt.Sprintf("%016x", xxh3.HashString(id))[:8]
}

func sanitizeState(state string) string {
	if state == "" {
		return "none"
	}

	return state
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}

	return outcomeSuccess
}
