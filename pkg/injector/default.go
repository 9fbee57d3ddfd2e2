package injector

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/litmuschaos/chaos-engine/pkg/cerrors"
	"github.com/litmuschaos/chaos-engine/pkg/log"
)

const (
	// memoryExhaustionBytes is the allocation ceiling for a full memory
	// exhaustion, the injected fraction scales it down
	memoryExhaustionBytes = 100 * 1024 * 1024
	// cpuExhaustionWindow is the busy-loop ceiling for a full cpu
	// exhaustion, the injected fraction scales it down
	cpuExhaustionWindow = 10 * time.Second
)

// ActivityTracker is the experiment bookkeeping shared by injector
// implementations, safe for concurrent use
type ActivityTracker struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// MarkExperimentActive records the experiment id in the active set
func (t *ActivityTracker) MarkExperimentActive(experimentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		t.active = make(map[string]struct{})
	}
	t.active[experimentID] = struct{}{}
}

// ClearExperiment removes the experiment id from the active set
func (t *ActivityTracker) ClearExperiment(experimentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, experimentID)
}

// IsExperimentActive checks membership of the experiment id in the active set
func (t *ActivityTracker) IsExperimentActive(experimentID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.active[experimentID]
	return ok
}

// HasActiveExperiments reports whether any experiment currently schedules
// injections through this injector
func (t *ActivityTracker) HasActiveExperiments() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active) > 0
}

// DefaultChaosInjector is the in-process implementation of the fault
// primitives, it simulates faults with sleeps, typed errors, transient
// allocations and busy loops
type DefaultChaosInjector struct {
	ActivityTracker

	service string

	mu             sync.Mutex
	imposedLatency map[string]time.Duration
	downFlags      map[string]bool
}

// NewDefaultInjector creates an injector for the given service
func NewDefaultInjector(service string) *DefaultChaosInjector {
	return &DefaultChaosInjector{
		service:        service,
		imposedLatency: make(map[string]time.Duration),
		downFlags:      make(map[string]bool),
	}
}

func (i *DefaultChaosInjector) ServiceName() string {
	return i.service
}

// InjectLatency suspends for durationMs, the imposed latency is queryable
// under the correlation id while the suspension is in effect
func (i *DefaultChaosInjector) InjectLatency(ctx context.Context, durationMs int, correlationID string) error {
	latency := time.Duration(durationMs) * time.Millisecond

	i.mu.Lock()
	i.imposedLatency[correlationID] = latency
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		delete(i.imposedLatency, correlationID)
		i.mu.Unlock()
	}()

	select {
	case <-time.After(latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InjectFault raises the typed fault for the given kind, the message is
// carried inside the chaos-marked error
func (i *DefaultChaosInjector) InjectFault(kind cerrors.FaultKind, message, correlationID string) error {
	return cerrors.InjectedFault{
		Kind:          kind,
		Service:       i.service,
		CorrelationID: correlationID,
		Reason:        message,
	}
}

// ExhaustResource pressures memory or cpu by the given fraction of the
// exhaustion ceiling, any other resource name is a silent no-op
func (i *DefaultChaosInjector) ExhaustResource(ctx context.Context, resource string, fraction float64, correlationID string) error {
	switch resource {
	case "memory":
		ballast := make([]byte, int(float64(memoryExhaustionBytes)*fraction))
		for page := 0; page < len(ballast); page += 4096 {
			ballast[page] = 1
		}
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			runtime.KeepAlive(ballast)
			return ctx.Err()
		}
		runtime.KeepAlive(ballast)
	case "cpu":
		deadline := time.Now().Add(time.Duration(fraction * float64(cpuExhaustionWindow)))
		spin := 0
		for time.Now().Before(deadline) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			for n := 0; n < 1000; n++ {
				spin += n * n
			}
		}
		_ = spin
	default:
		log.Warnf("[Inject]: Unrecognized resource type %v, skipping exhaustion", resource)
	}
	return nil
}

// SimulateServiceFailure raises the advisory down flag for the given number
// of seconds and clears it afterwards, hosts consult IsDown to honor it
func (i *DefaultChaosInjector) SimulateServiceFailure(ctx context.Context, service string, duration int, correlationID string) error {
	i.mu.Lock()
	i.downFlags[correlationID] = true
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		delete(i.downFlags, correlationID)
		i.mu.Unlock()
	}()

	select {
	case <-time.After(time.Duration(duration) * time.Second):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsDown checks the advisory down flag for the given correlation id
func (i *DefaultChaosInjector) IsDown(correlationID string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.downFlags[correlationID]
}

// Unavailable reports whether any simulated failure is currently in effect
func (i *DefaultChaosInjector) Unavailable() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.downFlags) > 0
}

// ImposedLatency returns the latency currently imposed under the given
// correlation id, zero when none is in effect
func (i *DefaultChaosInjector) ImposedLatency(correlationID string) time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.imposedLatency[correlationID]
}
