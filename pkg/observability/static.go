package observability

import (
	"context"
	"sync"
)

// StaticCollector serves fixed metric snapshots and records business events
// in memory. It backs the demo binary and the package tests, real hosts plug
// in their own Collector.
type StaticCollector struct {
	mu sync.Mutex

	System      SystemMetrics
	Application ApplicationMetrics

	events []RecordedEvent
}

// RecordedEvent is one business event captured by the static collector
type RecordedEvent struct {
	Name    string
	Payload map[string]interface{}
}

// NewStaticCollector returns a collector with healthy-looking defaults
func NewStaticCollector() *StaticCollector {
	return &StaticCollector{
		System: SystemMetrics{
			CPUPercent:       25.0,
			MemoryPercent:    40.0,
			DiskUsagePercent: 55.0,
		},
		Application: ApplicationMetrics{
			ErrorRate:       0.01,
			AvgResponseTime: 120.0,
			MemoryUsageMB:   256.0,
			UptimeSeconds:   3600.0,
		},
	}
}

func (c *StaticCollector) CollectSystemMetrics(ctx context.Context) (SystemMetrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.System, nil
}

func (c *StaticCollector) CollectApplicationMetrics(ctx context.Context) (ApplicationMetrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Application, nil
}

func (c *StaticCollector) RecordBusinessEvent(ctx context.Context, name string, payload map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, RecordedEvent{Name: name, Payload: payload})
	return nil
}

// SetMetrics atomically replaces the snapshots served to the engine
func (c *StaticCollector) SetMetrics(system SystemMetrics, application ApplicationMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.System = system
	c.Application = application
}

// Events returns a copy of the business events recorded so far
func (c *StaticCollector) Events() []RecordedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RecordedEvent, len(c.events))
	copy(out, c.events)
	return out
}
