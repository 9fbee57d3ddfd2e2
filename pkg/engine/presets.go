package engine

import (
	"github.com/litmuschaos/chaos-engine/pkg/log"
	"github.com/litmuschaos/chaos-engine/pkg/types"
)

const (
	PresetBasicLatency       = "basic_latency"
	PresetServiceFailures    = "service_failures"
	PresetResourceContention = "resource_contention"
	PresetCompleteChaos      = "complete_chaos"
)

// GenerateExperimentPreset builds one of the canned experiment templates.
// Every call yields a fresh experiment id. Unknown preset names fall back
// to basic_latency, this is documented behavior.
func (m *ChaosEngineeringManager) GenerateExperimentPreset(presetName string) *types.ChaosExperiment {
	switch presetName {
	case PresetServiceFailures:
		return types.NewExperiment(
			"Service Failure Simulation",
			"Simulate random service unavailabilities",
			[]types.ChaosEvent{types.ServiceUnavailable},
			types.MediumIntensity,
			600,
		)

	case PresetResourceContention:
		return types.NewExperiment(
			"Resource Exhaustion Test",
			"Test system under resource pressure",
			[]types.ChaosEvent{types.ResourceExhaustion},
			types.MediumIntensity,
			450,
		)

	case PresetCompleteChaos:
		return types.NewExperiment(
			"Full System Chaos",
			"Comprehensive chaos testing across all dimensions",
			[]types.ChaosEvent{
				types.LatencyInjection,
				types.ExceptionInjection,
				types.ResourceExhaustion,
				types.ServiceUnavailable,
			},
			types.HighIntensity,
			900,
		)

	case PresetBasicLatency:

	default:
		log.Warnf("[Preset]: Unknown preset %v, falling back to %v", presetName, PresetBasicLatency)
	}

	return types.NewExperiment(
		"Basic Latency Injection",
		"Test system response to artificial latency",
		[]types.ChaosEvent{types.LatencyInjection},
		types.LowIntensity,
		300,
	)
}
