package engine

import (
	"context"
	"sync"
	"time"

	"github.com/litmuschaos/chaos-engine/pkg/evaluator"
	"github.com/litmuschaos/chaos-engine/pkg/events"
	"github.com/litmuschaos/chaos-engine/pkg/injector"
	"github.com/litmuschaos/chaos-engine/pkg/log"
	"github.com/litmuschaos/chaos-engine/pkg/observability"
	"github.com/litmuschaos/chaos-engine/pkg/telemetry"
	"github.com/litmuschaos/chaos-engine/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// ChaosEngineeringManager orchestrates chaos experiments: it gates them on
// the configuration, schedules injections against registered injectors,
// drives the evaluator and owns the bookkeeping of tracked experiments.
// Construct one per host application, there is no global instance.
type ChaosEngineeringManager struct {
	// BaselineWindow is the sampling window for the one-time baseline
	// establishment, tests compress it
	BaselineWindow time.Duration

	collector observability.Collector
	evaluator *evaluator.ChaosEvaluator
	metrics   *telemetry.Metrics

	mu            sync.Mutex
	configuration types.ChaosConfiguration
	injectors     map[string]injector.ChaosInjector
	experiments   map[string]*types.ChaosExperiment
	running       bool
	cancel        context.CancelFunc

	// baselineMu single-flights baseline establishment across overlapping
	// RunExperiment callers
	baselineMu sync.Mutex
}

// NewManager creates a manager bound to the given observability collaborator
func NewManager(collector observability.Collector) *ChaosEngineeringManager {
	return NewManagerWithRegistry(collector, nil)
}

// NewManagerWithRegistry additionally registers the engine's prometheus
// instrumentation on the given registerer
func NewManagerWithRegistry(collector observability.Collector, registerer prometheus.Registerer) *ChaosEngineeringManager {
	return &ChaosEngineeringManager{
		BaselineWindow: evaluator.DefaultBaselineWindow,
		collector:      collector,
		evaluator:      evaluator.NewEvaluator(),
		metrics:        telemetry.NewMetrics(registerer),
		configuration:  types.NewDefaultConfiguration(),
		injectors:      make(map[string]injector.ChaosInjector),
		experiments:    make(map[string]*types.ChaosExperiment),
	}
}

// Evaluator exposes the manager's evaluator, hosts and tests use it to
// inspect the baseline or compress the sampling cadence
func (m *ChaosEngineeringManager) Evaluator() *evaluator.ChaosEvaluator {
	return m.evaluator
}

// Initialize marks the manager running, repeated calls are no-ops
func (m *ChaosEngineeringManager) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	_, m.cancel = context.WithCancel(context.Background())
	m.running = true
	log.Info("[Engine]: Chaos engineering manager initialized")
}

// Shutdown cancels the manager's own background handle and clears the
// running flag. In-flight injection tasks are deliberately left alone, the
// CancelResidualFaults toggle governs those per experiment.
func (m *ChaosEngineeringManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	log.Info("[Engine]: Chaos engineering manager shutdown")
}

// RegisterInjector adds the injector for its service, the last registration
// for a service name wins
func (m *ChaosEngineeringManager) RegisterInjector(inj injector.ChaosInjector) {
	m.mu.Lock()
	m.injectors[inj.ServiceName()] = inj
	m.mu.Unlock()
	log.Infof("[Registry]: Registered chaos injector for %v", inj.ServiceName())
}

// Configure atomically replaces the configuration, the change applies only
// to subsequently started experiments
func (m *ChaosEngineeringManager) Configure(config types.ChaosConfiguration) {
	m.mu.Lock()
	m.configuration = config
	m.mu.Unlock()
	log.InfoWithValues("[Engine]: Chaos configuration updated", logrus.Fields{
		"enabled":   config.Enabled,
		"intensity": config.Intensity.String(),
	})
}

// Configuration returns a snapshot of the current configuration
func (m *ChaosEngineeringManager) Configuration() types.ChaosConfiguration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configuration
}

// RunExperiment executes the experiment end to end and always returns the
// mutated experiment. Normal fault paths never escape as errors: gating
// rejections cancel the experiment, injected faults are absorbed at the
// injection boundary and unexpected failures mark the experiment failed.
func (m *ChaosEngineeringManager) RunExperiment(ctx context.Context, experiment *types.ChaosExperiment) *types.ChaosExperiment {
	configuration := m.Configuration()

	if !configuration.Enabled {
		log.Warn("[Gate]: Chaos engineering is disabled, cancelling experiment")
		experiment.Status = types.StatusCancelled
		return experiment
	}

	if experiment.Intensity > configuration.Intensity {
		log.Warnf("[Gate]: Experiment intensity %v exceeds configured ceiling %v, cancelling",
			experiment.Intensity, configuration.Intensity)
		experiment.Status = types.StatusCancelled
		return experiment
	}

	// one-time, process-wide side effect, single-flighted across
	// overlapping callers
	if err := m.ensureBaseline(ctx); err != nil {
		log.Errorf("[Baseline]: Unable to establish baseline, err: %v", err)
		experiment.Status = types.StatusFailed
		experiment.Results.Error = err.Error()
		m.recordCompletion(ctx, experiment)
		return experiment
	}

	ctx, span := telemetry.StartExperimentSpan(ctx, experiment.ExperimentID, experiment.Name)
	defer span.End()

	m.mu.Lock()
	m.experiments[experiment.ExperimentID] = experiment
	m.mu.Unlock()
	m.metrics.ActiveExperiments.Inc()

	injectionCtx := context.Background()
	var cancelInjections context.CancelFunc
	if configuration.CancelResidualFaults {
		injectionCtx, cancelInjections = context.WithCancel(context.Background())
		defer cancelInjections()
	}
	group, injectionCtx := errgroup.WithContext(injectionCtx)

	for _, event := range experiment.Events {
		m.scheduleChaosEvent(injectionCtx, group, event, experiment, configuration)
	}

	if err := m.evaluator.MonitorDuringExperiment(ctx, experiment, m.collector); err != nil {
		// the evaluator already stamped the failed status and error
		log.Errorf("[Engine]: Experiment %v failed, err: %v", experiment.ExperimentID, err)
	}

	if configuration.CancelResidualFaults {
		cancelInjections()
		_ = group.Wait()
	}

	m.cleanupExperiment(experiment.ExperimentID)
	m.metrics.ActiveExperiments.Dec()
	if experiment.Status == types.StatusEmergencyStopped {
		m.metrics.EmergencyStopsTotal.Inc()
	}

	span.SetAttributes(attribute.String("chaos.experiment.status", experiment.Status))
	m.recordCompletion(ctx, experiment)

	return experiment
}

func (m *ChaosEngineeringManager) ensureBaseline(ctx context.Context) error {
	m.baselineMu.Lock()
	defer m.baselineMu.Unlock()
	if m.evaluator.HasBaseline() {
		return nil
	}
	return m.evaluator.EstablishBaseline(ctx, m.collector, m.BaselineWindow)
}

// recordCompletion emits the single completion event of an experiment
func (m *ChaosEngineeringManager) recordCompletion(ctx context.Context, experiment *types.ChaosExperiment) {
	m.metrics.ExperimentsTotal.WithLabelValues(experiment.Status).Inc()
	if err := m.collector.RecordBusinessEvent(ctx, events.ExperimentCompleted, events.NewExperimentCompleted(experiment)); err != nil {
		log.Errorf("[Engine]: Unable to record completion event for %v, err: %v", experiment.ExperimentID, err)
	}
}

// cleanupExperiment drops the experiment from the tracked table and from
// every injector's active set
func (m *ChaosEngineeringManager) cleanupExperiment(experimentID string) {
	m.mu.Lock()
	delete(m.experiments, experimentID)
	injectors := make([]injector.ChaosInjector, 0, len(m.injectors))
	for _, inj := range m.injectors {
		injectors = append(injectors, inj)
	}
	m.mu.Unlock()

	for _, inj := range injectors {
		inj.ClearExperiment(experimentID)
	}
	log.Infof("[Cleanup]: Experiment %v removed from tracking", experimentID)
}

// GetExperimentStatus returns the tracked experiment for the id, nil when
// the experiment is not tracked
func (m *ChaosEngineeringManager) GetExperimentStatus(experimentID string) *types.ChaosExperiment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.experiments[experimentID]
}

// GetAllExperiments returns a snapshot copy of the tracked table
func (m *ChaosEngineeringManager) GetAllExperiments() map[string]*types.ChaosExperiment {
	m.mu.Lock()
	defer m.mu.Unlock()
	experiments := make(map[string]*types.ChaosExperiment, len(m.experiments))
	for id, experiment := range m.experiments {
		experiments[id] = experiment
	}
	return experiments
}

// EmergencyStopAll flags every tracked experiment for emergency stop and
// runs the completion cleanup. Outstanding injection tasks keep executing,
// their monitoring loops observe the flag on the next sample.
func (m *ChaosEngineeringManager) EmergencyStopAll() {
	log.Warn("[Emergency]: Emergency stop triggered for all experiments")

	for experimentID, experiment := range m.GetAllExperiments() {
		experiment.TriggerEmergencyStop()
		m.cleanupExperiment(experimentID)
	}
}
