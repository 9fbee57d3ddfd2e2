package evaluator

import (
	"context"
	"sync"
	"time"

	"github.com/litmuschaos/chaos-engine/pkg/cerrors"
	"github.com/litmuschaos/chaos-engine/pkg/log"
	"github.com/litmuschaos/chaos-engine/pkg/math"
	"github.com/litmuschaos/chaos-engine/pkg/observability"
	"github.com/litmuschaos/chaos-engine/pkg/types"
	"github.com/litmuschaos/chaos-engine/pkg/utils/retry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultSampleInterval is the cadence of metric sampling during
	// baseline collection and experiment monitoring
	DefaultSampleInterval = 5 * time.Second
	// DefaultBaselineWindow is the sampling window for baseline collection
	DefaultBaselineWindow = 60 * time.Second

	// emergencyWindow is how many consecutive breaching samples trigger an
	// emergency stop, there is no hysteresis and no grace period
	emergencyWindow = 3
	// emergencyErrorRate is the application error-rate breach threshold
	emergencyErrorRate = 0.5
	// emergencyMemoryPercent is the system memory breach threshold
	emergencyMemoryPercent = 95.0

	// minStabilitySamples below which the stability score degrades to the
	// fixed neutral value
	minStabilitySamples = 5
	neutralStability    = 0.5
)

// metricSample is one timestamped pull from the observability collaborator
type metricSample struct {
	Timestamp   time.Time
	System      observability.SystemMetrics
	Application observability.ApplicationMetrics
}

// ChaosEvaluator establishes the pre-experiment baseline, monitors the
// system while an experiment runs and decides on emergency termination.
// One evaluator is owned by exactly one manager.
type ChaosEvaluator struct {
	// SampleInterval overrides the sampling cadence, tests compress it to
	// keep experiment windows short
	SampleInterval time.Duration

	mu       sync.Mutex
	baseline map[string]float64
}

// NewEvaluator returns an evaluator with the default sampling cadence and
// no baseline
func NewEvaluator() *ChaosEvaluator {
	return &ChaosEvaluator{
		SampleInterval: DefaultSampleInterval,
	}
}

// HasBaseline reports whether a baseline was already established
func (e *ChaosEvaluator) HasBaseline() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.baseline) > 0
}

// Baseline returns a copy of the established baseline averages
func (e *ChaosEvaluator) Baseline() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.baseline))
	for k, v := range e.baseline {
		out[k] = v
	}
	return out
}

// EstablishBaseline samples the collector for the given window and reduces
// the samples to flat per-metric averages, overwriting any prior baseline
func (e *ChaosEvaluator) EstablishBaseline(ctx context.Context, collector observability.Collector, window time.Duration) error {
	log.Infof("[Baseline]: Establishing baseline metrics over %v", window)

	samples, err := e.collectSamples(ctx, collector, window, false, func() bool { return false })
	if err != nil {
		return errors.Wrap(err, "unable to establish baseline")
	}

	baseline := calculateAverages(samples)

	e.mu.Lock()
	e.baseline = baseline
	e.mu.Unlock()

	log.InfoWithValues("[Baseline]: Baseline metrics established", logrus.Fields{
		"samples": len(samples),
	})
	return nil
}

// MonitorDuringExperiment samples the collector until the experiment window
// closes or an emergency condition fires, then stamps the run state and
// results onto the experiment
func (e *ChaosEvaluator) MonitorDuringExperiment(ctx context.Context, experiment *types.ChaosExperiment, collector observability.Collector) error {
	log.Infof("[Monitor]: Monitoring experiment %v for %vs", experiment.ExperimentID, experiment.Duration)

	start := time.Now()
	experiment.StartTime = &start
	experiment.Status = types.StatusRunning

	window := time.Duration(experiment.Duration) * time.Second

	samples, err := e.collectSamples(ctx, collector, window, true, func() bool {
		return experiment.EmergencyStopTriggered()
	})

	if checkEmergencyConditions(samples) {
		experiment.TriggerEmergencyStop()
	}

	end := time.Now()
	experiment.EndTime = &end

	if err != nil {
		experiment.Status = types.StatusFailed
		experiment.Results.Error = err.Error()
		return errors.Wrapf(err, "monitoring of experiment %v interrupted", experiment.ExperimentID)
	}

	if experiment.EmergencyStopTriggered() {
		experiment.Status = types.StatusEmergencyStopped
	} else {
		experiment.Status = types.StatusCompleted
	}

	comparison, comparisonErr := e.compareWithBaseline(samples)
	experiment.Results = types.ExperimentResults{
		DurationActual:    end.Sub(start).Seconds(),
		EmergencyStop:     experiment.EmergencyStopTriggered(),
		MetricsComparison: comparison,
		ComparisonError:   comparisonErr,
		StabilityScore:    calculateStabilityScore(samples),
	}

	log.InfoWithValues("[Monitor]: Experiment monitoring complete", logrus.Fields{
		"experimentID":   experiment.ExperimentID,
		"status":         experiment.Status,
		"durationActual": experiment.Results.DurationActual,
		"stabilityScore": experiment.Results.StabilityScore,
	})
	return nil
}

// collectSamples polls the collector on the evaluator cadence until the
// window elapses, the stop predicate fires or, when detectEmergency is set,
// an emergency condition shows up inside the accumulated samples
func (e *ChaosEvaluator) collectSamples(ctx context.Context, collector observability.Collector, window time.Duration, detectEmergency bool, stop func() bool) ([]metricSample, error) {
	var samples []metricSample

	start := time.Now()
	for time.Since(start) < window && !stop() {
		sample, err := e.collectOne(ctx, collector)
		if err != nil {
			// transient collector hiccups are retried inside collectOne,
			// a persistent failure aborts the window
			return samples, err
		}
		samples = append(samples, sample)

		if detectEmergency && checkEmergencyConditions(samples) {
			log.Warn("[Emergency]: Emergency condition detected, aborting sampling window")
			break
		}

		remaining := window - time.Since(start)
		if remaining <= 0 {
			break
		}
		wait := e.SampleInterval
		if remaining < wait {
			wait = remaining
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return samples, ctx.Err()
		}
	}

	return samples, nil
}

func (e *ChaosEvaluator) collectOne(ctx context.Context, collector observability.Collector) (metricSample, error) {
	var sample metricSample

	err := retry.
		Times(3).
		Wait(e.SampleInterval / 10).
		Try(func(attempt uint) error {
			system, err := collector.CollectSystemMetrics(ctx)
			if err != nil {
				return cerrors.MetricCollection{Source: "system", Reason: err.Error()}
			}
			application, err := collector.CollectApplicationMetrics(ctx)
			if err != nil {
				return cerrors.MetricCollection{Source: "application", Reason: err.Error()}
			}
			sample = metricSample{
				Timestamp:   time.Now(),
				System:      system,
				Application: application,
			}
			return nil
		})

	return sample, err
}

// checkEmergencyConditions aborts on sustained extreme readings: the last
// three application samples all above the error-rate threshold, or the last
// three system samples all above the memory threshold
func checkEmergencyConditions(samples []metricSample) bool {
	if len(samples) < emergencyWindow {
		return false
	}

	recent := samples[len(samples)-emergencyWindow:]

	errorRateBreached := true
	memoryBreached := true
	for _, sample := range recent {
		if sample.Application.ErrorRate <= emergencyErrorRate {
			errorRateBreached = false
		}
		if sample.System.MemoryPercent <= emergencyMemoryPercent {
			memoryBreached = false
		}
	}

	return errorRateBreached || memoryBreached
}

// calculateAverages reduces samples to a flat metric_name -> average map
func calculateAverages(samples []metricSample) map[string]float64 {
	if len(samples) == 0 {
		return map[string]float64{}
	}

	sums := map[string]float64{}
	for _, sample := range samples {
		sums["system_cpu_percent_avg"] += sample.System.CPUPercent
		sums["system_memory_percent_avg"] += sample.System.MemoryPercent
		sums["system_disk_usage_percent_avg"] += sample.System.DiskUsagePercent
		sums["app_memory_usage_mb_avg"] += sample.Application.MemoryUsageMB
		sums["app_uptime_seconds_avg"] += sample.Application.UptimeSeconds
	}

	averages := make(map[string]float64, len(sums))
	for key, sum := range sums {
		averages[key] = sum / float64(len(samples))
	}
	return averages
}

// compareWithBaseline computes the percentage delta of the experiment
// averages against the baseline averages, without a baseline the comparison
// degrades to the no_baseline marker
func (e *ChaosEvaluator) compareWithBaseline(samples []metricSample) (map[string]float64, string) {
	e.mu.Lock()
	baseline := e.baseline
	e.mu.Unlock()

	if len(baseline) == 0 {
		return nil, "no_baseline"
	}

	averages := calculateAverages(samples)
	differences := make(map[string]float64, len(averages))
	for key, experimentValue := range averages {
		baselineValue, ok := baseline[key]
		if !ok {
			baselineValue = experimentValue
		}
		if baselineValue != 0 {
			differences[key+"_change_pct"] = (experimentValue - baselineValue) / baselineValue * 100
		}
	}
	return differences, ""
}

// calculateStabilityScore maps cpu and memory sample variance to [0,1] with
// a fixed linear penalty, an empirically calibrated heuristic rather than a
// statistically principled score
func calculateStabilityScore(samples []metricSample) float64 {
	if len(samples) < minStabilitySamples {
		return neutralStability
	}

	cpuValues := make([]float64, 0, len(samples))
	memoryValues := make([]float64, 0, len(samples))
	for _, sample := range samples {
		cpuValues = append(cpuValues, sample.System.CPUPercent)
		memoryValues = append(memoryValues, sample.System.MemoryPercent)
	}

	penalty := (variance(cpuValues) + variance(memoryValues)) / 200
	return math.MaxFloat(0, 1.0-penalty)
}

func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}
