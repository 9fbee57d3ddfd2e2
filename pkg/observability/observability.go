package observability

import (
	"context"
)

// SystemMetrics is one snapshot of host-level readings
type SystemMetrics struct {
	CPUPercent       float64
	MemoryPercent    float64
	DiskUsagePercent float64
}

// ApplicationMetrics is one snapshot of application-level readings
type ApplicationMetrics struct {
	ErrorRate       float64
	AvgResponseTime float64
	MemoryUsageMB   float64
	UptimeSeconds   float64
}

// Collector is the observability collaborator of the chaos engine. The engine
// polls it for metric snapshots and pushes the single completion event of each
// experiment through it.
type Collector interface {
	CollectSystemMetrics(ctx context.Context) (SystemMetrics, error)
	CollectApplicationMetrics(ctx context.Context) (ApplicationMetrics, error)
	RecordBusinessEvent(ctx context.Context, name string, payload map[string]interface{}) error
}
