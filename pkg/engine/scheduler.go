package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/litmuschaos/chaos-engine/pkg/cerrors"
	"github.com/litmuschaos/chaos-engine/pkg/injector"
	"github.com/litmuschaos/chaos-engine/pkg/log"
	"github.com/litmuschaos/chaos-engine/pkg/math"
	"github.com/litmuschaos/chaos-engine/pkg/types"
	"github.com/litmuschaos/chaos-engine/pkg/utils/stringutils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// firstEventDelayLow / firstEventDelayHigh bound the pre-delay of the
	// first scheduled injection of every event kind, independent of the
	// intensity table
	firstEventDelayLow  = 10.0
	firstEventDelayHigh = 30.0

	latencyMinMs = 1000
	latencyMaxMs = 5000

	exhaustionMinFraction = 0.3
	exhaustionMaxFraction = 0.7

	unavailabilityMinSeconds = 10
	unavailabilityMaxSeconds = 60
)

// scheduleChaosEvent derives the injection count and delay distribution for
// one event kind from the experiment intensity and launches one concurrent
// task per injection, fire-and-forget relative to the caller
func (m *ChaosEngineeringManager) scheduleChaosEvent(ctx context.Context, group *errgroup.Group, event types.ChaosEvent, experiment *types.ChaosExperiment, configuration types.ChaosConfiguration) {
	count, delayLow, delayHigh := scheduleParameters(experiment.Intensity, experiment.Duration)

	pool := m.eligibleInjectors(configuration)
	if len(pool) == 0 {
		log.Warnf("[Schedule]: No eligible injectors for event %v, skipping", event)
		return
	}

	log.InfoWithValues("[Schedule]: Scheduling chaos event", logrus.Fields{
		"event":        event,
		"experimentID": experiment.ExperimentID,
		"count":        count,
	})

	for i := 0; i < count; i++ {
		delaySeconds := uniform(delayLow, delayHigh)
		if i == 0 {
			delaySeconds = uniform(firstEventDelayLow, firstEventDelayHigh)
		}

		target := pool[rand.Intn(len(pool))]
		correlationID := stringutils.GetCorrelationID(experiment.ExperimentID, i)
		target.MarkExperimentActive(experiment.ExperimentID)

		delay := time.Duration(delaySeconds * float64(time.Second))
		group.Go(func() error {
			m.injectAfterDelay(ctx, target, event, correlationID, delay)
			return nil
		})
	}
}

// scheduleParameters is the intensity table: injections per event kind and
// the delay range (seconds) they are spread over inside the duration
func scheduleParameters(intensity types.ChaosIntensity, duration int) (count int, delayLow, delayHigh float64) {
	d := float64(duration)
	switch intensity {
	case types.MinimalIntensity:
		count, delayLow, delayHigh = 1, 60, d-60
	case types.LowIntensity:
		count, delayLow, delayHigh = randomInt(2, 4), 30, d-30
	case types.MediumIntensity:
		count, delayLow, delayHigh = randomInt(4, 8), 15, d-15
	case types.HighIntensity:
		count, delayLow, delayHigh = randomInt(8, 12), 5, d-5
	default:
		count, delayLow, delayHigh = randomInt(12, 20), 1, d-1
	}
	// short experiments collapse the range instead of going negative
	delayHigh = math.MaxFloat(delayLow, delayHigh)
	return count, delayLow, delayHigh
}

// eligibleInjectors filters the registry by the configured target and
// excluded service sets before random selection
func (m *ChaosEngineeringManager) eligibleInjectors(configuration types.ChaosConfiguration) []injector.ChaosInjector {
	m.mu.Lock()
	defer m.mu.Unlock()

	pool := make([]injector.ChaosInjector, 0, len(m.injectors))
	for service, inj := range m.injectors {
		if configuration.TargetsService(service) {
			pool = append(pool, inj)
		}
	}
	return pool
}

// injectAfterDelay waits out the pre-delay and invokes the fault primitive
// matching the event kind with a randomized magnitude. Injected faults are
// absorbed and logged here, they never reach the manager.
func (m *ChaosEngineeringManager) injectAfterDelay(ctx context.Context, target injector.ChaosInjector, event types.ChaosEvent, correlationID string, delay time.Duration) {
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		log.Infof("[Schedule]: Injection %v cancelled before firing", correlationID)
		return
	}

	var err error
	switch event {
	case types.LatencyInjection:
		err = target.InjectLatency(ctx, randomInt(latencyMinMs, latencyMaxMs), correlationID)

	case types.ExceptionInjection:
		kinds := cerrors.AllFaultKinds()
		kind := kinds[rand.Intn(len(kinds))]
		message := fmt.Sprintf("chaos engineering experiment %s", correlationID)
		err = target.InjectFault(kind, message, correlationID)

	case types.ResourceExhaustion:
		resource := "memory"
		if rand.Intn(2) == 1 {
			resource = "cpu"
		}
		err = target.ExhaustResource(ctx, resource, uniform(exhaustionMinFraction, exhaustionMaxFraction), correlationID)

	case types.ServiceUnavailable:
		err = target.SimulateServiceFailure(ctx, target.ServiceName(), randomInt(unavailabilityMinSeconds, unavailabilityMaxSeconds), correlationID)

	default:
		log.Warnf("[Inject]: Event %v has no injector behavior, skipping", event)
		return
	}

	if err != nil {
		log.Errorf("[Inject]: Chaos injection failed on %v, err: %v", target.ServiceName(), err)
		return
	}

	m.metrics.InjectionsTotal.WithLabelValues(string(event), target.ServiceName()).Inc()
	log.InfoWithValues("[Inject]: Chaos event injected", logrus.Fields{
		"event":   event,
		"service": target.ServiceName(),
	})
}

// uniform draws from [low, high), a collapsed range yields low
func uniform(low, high float64) float64 {
	if high <= low {
		return low
	}
	return low + rand.Float64()*(high-low)
}

// randomInt draws from [low, high] inclusive
func randomInt(low, high int) int {
	if high <= low {
		return low
	}
	return low + rand.Intn(high-low+1)
}
