package injector

import (
	"context"

	"github.com/litmuschaos/chaos-engine/pkg/cerrors"
)

// ChaosInjector realizes the fault primitives for one monitored service.
// The engine drives one injector per service, custom implementations can
// embed ActivityTracker to get the experiment bookkeeping for free.
type ChaosInjector interface {
	// ServiceName identifies the service this injector acts on
	ServiceName() string

	// InjectLatency suspends for the given duration, recording the imposed
	// latency under the correlation id while it is in effect
	InjectLatency(ctx context.Context, durationMs int, correlationID string) error

	// InjectFault raises a typed injected fault of the given kind, the
	// returned error always carries the chaos marker
	InjectFault(kind cerrors.FaultKind, message, correlationID string) error

	// ExhaustResource transiently pressures the named resource by the given
	// fraction, unrecognized resources are silent no-ops
	ExhaustResource(ctx context.Context, resource string, fraction float64, correlationID string) error

	// SimulateServiceFailure raises an advisory down flag for the given
	// number of seconds
	SimulateServiceFailure(ctx context.Context, service string, duration int, correlationID string) error

	// MarkExperimentActive records that the experiment schedules injections
	// through this injector
	MarkExperimentActive(experimentID string)

	// ClearExperiment removes the experiment from the active set
	ClearExperiment(experimentID string)

	// IsExperimentActive checks membership in the active set
	IsExperimentActive(experimentID string) bool
}
