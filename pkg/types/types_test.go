package types

import (
	"testing"
)

func TestIntensityOrdering(t *testing.T) {
	ordered := []ChaosIntensity{MinimalIntensity, LowIntensity, MediumIntensity, HighIntensity, ExtremeIntensity}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Errorf("Expected %v < %v", ordered[i-1], ordered[i])
		}
	}

	if MinimalIntensity != 1 || ExtremeIntensity != 5 {
		t.Errorf("Expected ordinal range [1,5], got [%d,%d]", MinimalIntensity, ExtremeIntensity)
	}
}

func TestNewExperimentDefaults(t *testing.T) {
	experiment := NewExperiment("exp", "description", []ChaosEvent{LatencyInjection}, LowIntensity, 300)

	if experiment.Status != StatusPending {
		t.Errorf("Expected status %v, got %v", StatusPending, experiment.Status)
	}

	if experiment.StartTime != nil || experiment.EndTime != nil {
		t.Error("Expected nil start and end time on a fresh experiment")
	}

	if experiment.EmergencyStopTriggered() {
		t.Error("Expected emergency stop flag to be unset on a fresh experiment")
	}

	if experiment.ExperimentID == "" {
		t.Error("Expected a generated experiment id")
	}
}

func TestNewExperimentIDsNeverReused(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		experiment := NewExperiment("exp", "", nil, LowIntensity, 60)
		if seen[experiment.ExperimentID] {
			t.Fatalf("Experiment id %v was reused", experiment.ExperimentID)
		}
		seen[experiment.ExperimentID] = true
	}
}

func TestTargetsServiceWildcard(t *testing.T) {
	configuration := NewDefaultConfiguration()

	if !configuration.TargetsService("svc-a") {
		t.Error("Expected wildcard target set to match any service")
	}
}

func TestTargetsServiceExclusionWins(t *testing.T) {
	configuration := NewDefaultConfiguration()
	configuration.ExcludedServices = []string{"svc-b"}

	if configuration.TargetsService("svc-b") {
		t.Error("Expected excluded service to be rejected even under wildcard targets")
	}
	if !configuration.TargetsService("svc-a") {
		t.Error("Expected non-excluded service to stay targeted")
	}
}

func TestTargetsServiceExplicitSet(t *testing.T) {
	configuration := NewDefaultConfiguration()
	configuration.TargetServices = []string{"svc-a"}

	if !configuration.TargetsService("svc-a") {
		t.Error("Expected listed service to be targeted")
	}
	if configuration.TargetsService("svc-b") {
		t.Error("Expected unlisted service to be rejected")
	}
}

func TestTriggerEmergencyStop(t *testing.T) {
	experiment := NewExperiment("exp", "", nil, LowIntensity, 60)

	experiment.TriggerEmergencyStop()

	if !experiment.EmergencyStopTriggered() {
		t.Error("Expected emergency stop flag to be set")
	}
}
