package events

import (
	"testing"

	"github.com/litmuschaos/chaos-engine/pkg/types"
)

func TestNewExperimentCompletedPayload(t *testing.T) {
	experiment := types.NewExperiment("exp", "", []types.ChaosEvent{types.LatencyInjection}, types.LowIntensity, 300)
	experiment.Status = types.StatusCompleted
	experiment.Results.StabilityScore = 0.83

	payload := NewExperimentCompleted(experiment)

	if payload["experiment_id"] != experiment.ExperimentID {
		t.Errorf("Expected experiment id %v, got %v", experiment.ExperimentID, payload["experiment_id"])
	}
	if payload["status"] != types.StatusCompleted {
		t.Errorf("Expected status %v, got %v", types.StatusCompleted, payload["status"])
	}
	if payload["stability_score"] != 0.83 {
		t.Errorf("Expected stability score 0.83, got %v", payload["stability_score"])
	}
	if payload["emergency_stop"] != false {
		t.Errorf("Expected emergency_stop false, got %v", payload["emergency_stop"])
	}
}
