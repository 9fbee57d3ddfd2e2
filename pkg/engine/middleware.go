package engine

import (
	"context"
	"math/rand"

	"github.com/litmuschaos/chaos-engine/pkg/cerrors"
	"github.com/litmuschaos/chaos-engine/pkg/injector"
	"github.com/litmuschaos/chaos-engine/pkg/log"
	"github.com/litmuschaos/chaos-engine/pkg/types"
)

const wrappedCallLatencyMs = 1000

// WithChaosInjection wraps fn so that, with the given probability, a chaos
// injection precedes the call whenever chaos is enabled and an experiment is
// active on some registered injector. Only latency and fault injection are
// supported at the call boundary, other event kinds delegate untouched.
func (m *ChaosEngineeringManager) WithChaosInjection(event types.ChaosEvent, probability float64, fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		if rand.Float64() >= probability || !m.Configuration().Enabled {
			return fn(ctx)
		}

		target, experimentID := m.activeInjector()
		if target == nil {
			return fn(ctx)
		}

		correlationID := "wrapped_" + experimentID
		switch event {
		case types.LatencyInjection:
			if err := target.InjectLatency(ctx, wrappedCallLatencyMs, correlationID); err != nil {
				log.Errorf("[Inject]: Wrapped latency injection failed, err: %v", err)
			}

		case types.ExceptionInjection:
			return target.InjectFault(cerrors.FaultRuntime, "chaos injected at call boundary", correlationID)
		}

		return fn(ctx)
	}
}

// activeInjector finds an injector with a tracked experiment currently
// scheduling injections through it
func (m *ChaosEngineeringManager) activeInjector() (injector.ChaosInjector, string) {
	experiments := m.GetAllExperiments()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inj := range m.injectors {
		for experimentID := range experiments {
			if inj.IsExperimentActive(experimentID) {
				return inj, experimentID
			}
		}
	}
	return nil, ""
}
