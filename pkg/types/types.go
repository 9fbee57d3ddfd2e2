package types

import (
	"sync/atomic"
	"time"

	"github.com/litmuschaos/chaos-engine/pkg/utils/stringutils"
)

const (
	// StatusPending initial state of an experiment before RunExperiment picks it up
	StatusPending string = "pending"
	// StatusRunning state while the monitoring window of the experiment is open
	StatusRunning string = "running"
	// StatusCompleted terminal state when the experiment ran its full duration
	StatusCompleted string = "completed"
	// StatusFailed terminal state when an unexpected failure interrupted the run
	StatusFailed string = "failed"
	// StatusCancelled terminal state when configuration gating rejected the experiment
	StatusCancelled string = "cancelled"
	// StatusEmergencyStopped terminal state when the emergency policy aborted the run
	StatusEmergencyStopped string = "emergency_stopped"
)

// ChaosEvent is the kind of fault an experiment asks to be injected
type ChaosEvent string

const (
	LatencyInjection   ChaosEvent = "latency_injection"
	ExceptionInjection ChaosEvent = "exception_injection"
	ResourceExhaustion ChaosEvent = "resource_exhaustion"
	NetworkPartition   ChaosEvent = "network_partition"
	ProcessCrash       ChaosEvent = "process_crash"
	DataCorruption     ChaosEvent = "data_corruption"
	ConfigurationDrift ChaosEvent = "configuration_drift"
	ServiceUnavailable ChaosEvent = "service_unavailable"
)

// ChaosIntensity is the ordinal severity of an experiment, it bounds which
// experiments a configuration permits and parameterizes scheduling density
type ChaosIntensity int

const (
	MinimalIntensity ChaosIntensity = iota + 1
	LowIntensity
	MediumIntensity
	HighIntensity
	ExtremeIntensity
)

func (i ChaosIntensity) String() string {
	switch i {
	case MinimalIntensity:
		return "minimal"
	case LowIntensity:
		return "low"
	case MediumIntensity:
		return "medium"
	case HighIntensity:
		return "high"
	case ExtremeIntensity:
		return "extreme"
	}
	return "unknown"
}

// ChaosConfiguration is the process-wide policy for chaos experiments,
// it is replaced wholesale via Configure and read at experiment start,
// changes never affect an experiment already in flight
type ChaosConfiguration struct {
	Enabled            bool           `yaml:"enabled"`
	Intensity          ChaosIntensity `yaml:"intensity"`
	ExperimentDuration int            `yaml:"experimentDuration"`
	CooldownPeriod     int            `yaml:"cooldownPeriod"`
	TargetServices     []string       `yaml:"targetServices"`
	ExcludedServices   []string       `yaml:"excludedServices"`
	SafeMode           bool           `yaml:"safeMode"`
	// CancelResidualFaults cancels outstanding injection tasks when the
	// experiment window closes, the default preserves the historical
	// fire-and-forget behavior where injected effects may outlive the run
	CancelResidualFaults bool `yaml:"cancelResidualFaults"`
}

// NewDefaultConfiguration returns the disabled-by-default configuration
func NewDefaultConfiguration() ChaosConfiguration {
	return ChaosConfiguration{
		Enabled:            false,
		Intensity:          LowIntensity,
		ExperimentDuration: 300,
		CooldownPeriod:     60,
		TargetServices:     []string{"*"},
		ExcludedServices:   []string{},
		SafeMode:           true,
	}
}

// TargetsService checks whether the configuration allows injections on the
// given service, "*" in TargetServices matches everything
func (c ChaosConfiguration) TargetsService(service string) bool {
	for _, excluded := range c.ExcludedServices {
		if excluded == service {
			return false
		}
	}
	for _, target := range c.TargetServices {
		if target == "*" || target == service {
			return true
		}
	}
	return false
}

// ExperimentResults carries the outcome of a finished experiment
type ExperimentResults struct {
	DurationActual    float64
	EmergencyStop     bool
	MetricsComparison map[string]float64
	// ComparisonError is set to "no_baseline" when no baseline existed to
	// compare against
	ComparisonError string
	StabilityScore  float64
	// Error holds the failure reason when Status is failed
	Error string
}

// ChaosExperiment is a single bounded-duration chaos experiment, created by
// the caller and mutated in place while it runs, the caller keeps the final
// object after the engine drops it from its tracked table
type ChaosExperiment struct {
	ExperimentID string
	Name         string
	Description  string
	Events       []ChaosEvent
	Intensity    ChaosIntensity
	// Duration of the experiment window in seconds
	Duration int

	Status    string
	StartTime *time.Time
	EndTime   *time.Time
	Results   ExperimentResults

	emergencyStop atomic.Bool
}

// NewExperiment creates a pending experiment with a fresh id
func NewExperiment(name, description string, events []ChaosEvent, intensity ChaosIntensity, duration int) *ChaosExperiment {
	return &ChaosExperiment{
		ExperimentID: stringutils.GetExperimentID(),
		Name:         name,
		Description:  description,
		Events:       events,
		Intensity:    intensity,
		Duration:     duration,
		Status:       StatusPending,
	}
}

// TriggerEmergencyStop flags the experiment for early termination, the
// monitoring loop observes the flag on its next sample
func (e *ChaosExperiment) TriggerEmergencyStop() {
	e.emergencyStop.Store(true)
}

// EmergencyStopTriggered reports whether an emergency stop was requested
func (e *ChaosExperiment) EmergencyStopTriggered() bool {
	return e.emergencyStop.Load()
}
