package events

import (
	"github.com/litmuschaos/chaos-engine/pkg/types"
)

const (
	// ExperimentCompleted is the single business event emitted per experiment
	ExperimentCompleted = "chaos_experiment_completed"
)

// NewExperimentCompleted builds the completion-event payload for an
// experiment in a terminal state
func NewExperimentCompleted(experiment *types.ChaosExperiment) map[string]interface{} {
	return map[string]interface{}{
		"experiment_id":   experiment.ExperimentID,
		"name":            experiment.Name,
		"status":          experiment.Status,
		"stability_score": experiment.Results.StabilityScore,
		"emergency_stop":  experiment.EmergencyStopTriggered(),
	}
}
