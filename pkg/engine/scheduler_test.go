package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/litmuschaos/chaos-engine/pkg/cerrors"
	"github.com/litmuschaos/chaos-engine/pkg/injector"
	"github.com/litmuschaos/chaos-engine/pkg/observability"
	"github.com/litmuschaos/chaos-engine/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// countingInjector records primitive invocations without sleeping
type countingInjector struct {
	injector.ActivityTracker

	mu           sync.Mutex
	latencyCalls int
	markCalls    int
}

func (c *countingInjector) ServiceName() string { return "svc-count" }

func (c *countingInjector) InjectLatency(ctx context.Context, durationMs int, correlationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latencyCalls++
	return nil
}

func (c *countingInjector) InjectFault(kind cerrors.FaultKind, message, correlationID string) error {
	return cerrors.InjectedFault{Kind: kind, Service: c.ServiceName(), CorrelationID: correlationID, Reason: message}
}

func (c *countingInjector) ExhaustResource(ctx context.Context, resource string, fraction float64, correlationID string) error {
	return nil
}

func (c *countingInjector) SimulateServiceFailure(ctx context.Context, service string, duration int, correlationID string) error {
	return nil
}

func (c *countingInjector) MarkExperimentActive(experimentID string) {
	c.mu.Lock()
	c.markCalls++
	c.mu.Unlock()
	c.ActivityTracker.MarkExperimentActive(experimentID)
}

func TestScheduleParametersTable(t *testing.T) {
	tests := []struct {
		intensity types.ChaosIntensity
		minCount  int
		maxCount  int
		delayLow  float64
		delayHigh float64
	}{
		{types.MinimalIntensity, 1, 1, 60, 240},
		{types.LowIntensity, 2, 4, 30, 270},
		{types.MediumIntensity, 4, 8, 15, 285},
		{types.HighIntensity, 8, 12, 5, 295},
		{types.ExtremeIntensity, 12, 20, 1, 299},
	}

	for _, tt := range tests {
		for trial := 0; trial < 50; trial++ {
			count, low, high := scheduleParameters(tt.intensity, 300)
			assert.GreaterOrEqual(t, count, tt.minCount, tt.intensity.String())
			assert.LessOrEqual(t, count, tt.maxCount, tt.intensity.String())
			assert.Equal(t, tt.delayLow, low, tt.intensity.String())
			assert.Equal(t, tt.delayHigh, high, tt.intensity.String())
		}
	}
}

func TestScheduleParametersShortDurationCollapses(t *testing.T) {
	_, low, high := scheduleParameters(types.MinimalIntensity, 2)
	assert.Equal(t, 60.0, low)
	assert.Equal(t, 60.0, high)
}

func TestMinimalSchedulesExactlyOneInjection(t *testing.T) {
	m := NewManager(observability.NewStaticCollector())
	inj := &countingInjector{}
	m.RegisterInjector(inj)

	configuration := types.NewDefaultConfiguration()
	configuration.Enabled = true

	experiment := types.NewExperiment("minimal", "", []types.ChaosEvent{types.LatencyInjection}, types.MinimalIntensity, 300)

	group, ctx := errgroup.WithContext(context.Background())
	m.scheduleChaosEvent(ctx, group, types.LatencyInjection, experiment, configuration)

	inj.mu.Lock()
	marks := inj.markCalls
	inj.mu.Unlock()
	require.Equal(t, 1, marks)
	assert.True(t, inj.IsExperimentActive(experiment.ExperimentID))

	// the single injection obeys the fixed first-event rule and cannot
	// fire before 10 seconds
	time.Sleep(200 * time.Millisecond)
	inj.mu.Lock()
	fired := inj.latencyCalls
	inj.mu.Unlock()
	assert.Zero(t, fired)
}

func TestScheduleSkipsEmptyPool(t *testing.T) {
	m := NewManager(observability.NewStaticCollector())

	configuration := types.NewDefaultConfiguration()
	configuration.Enabled = true

	experiment := types.NewExperiment("empty", "", []types.ChaosEvent{types.LatencyInjection}, types.MinimalIntensity, 300)

	group, ctx := errgroup.WithContext(context.Background())
	m.scheduleChaosEvent(ctx, group, types.LatencyInjection, experiment, configuration)
	require.NoError(t, group.Wait())
}

func TestScheduleRespectsExclusions(t *testing.T) {
	m := NewManager(observability.NewStaticCollector())
	excluded := &countingInjector{}
	m.RegisterInjector(excluded)

	configuration := types.NewDefaultConfiguration()
	configuration.Enabled = true
	configuration.ExcludedServices = []string{"svc-count"}

	experiment := types.NewExperiment("excluded", "", []types.ChaosEvent{types.LatencyInjection}, types.MinimalIntensity, 300)

	group, ctx := errgroup.WithContext(context.Background())
	m.scheduleChaosEvent(ctx, group, types.LatencyInjection, experiment, configuration)

	excluded.mu.Lock()
	defer excluded.mu.Unlock()
	assert.Zero(t, excluded.markCalls)
}

func TestInjectAfterDelayUnimplementedEvent(t *testing.T) {
	m := NewManager(observability.NewStaticCollector())
	inj := &countingInjector{}

	// declared kinds without injector behavior are logged no-ops
	m.injectAfterDelay(context.Background(), inj, types.NetworkPartition, "corr-1", 0)
	m.injectAfterDelay(context.Background(), inj, types.ProcessCrash, "corr-1", 0)

	inj.mu.Lock()
	defer inj.mu.Unlock()
	assert.Zero(t, inj.latencyCalls)
}

func TestInjectAfterDelayAbsorbsInjectedFault(t *testing.T) {
	m := NewManager(observability.NewStaticCollector())
	inj := &countingInjector{}

	// must not panic or propagate, the fault is logged at the boundary
	m.injectAfterDelay(context.Background(), inj, types.ExceptionInjection, "corr-1", 0)
}

func TestInjectAfterDelayCancelledBeforeFiring(t *testing.T) {
	m := NewManager(observability.NewStaticCollector())
	inj := &countingInjector{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m.injectAfterDelay(ctx, inj, types.LatencyInjection, "corr-1", time.Hour)

	inj.mu.Lock()
	defer inj.mu.Unlock()
	assert.Zero(t, inj.latencyCalls)
}

func TestUniformBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := uniform(10, 30)
		require.GreaterOrEqual(t, v, 10.0)
		require.Less(t, v, 30.0)
	}
	assert.Equal(t, 5.0, uniform(5, 5))
	assert.Equal(t, 5.0, uniform(5, 1))
}

func TestRandomIntBounds(t *testing.T) {
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := randomInt(2, 4)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 4)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 7, randomInt(7, 7))
}
