package cerrors

import "fmt"

// FaultKind is the closed set of fault kinds an injector can raise.
// Every kind maps to a concrete error at compile time, there is no
// string-keyed dispatch and no fallback for unknown kinds.
type FaultKind string

const (
	FaultInvalidValue FaultKind = "invalid_value"
	FaultRuntime      FaultKind = "runtime"
	FaultConnection   FaultKind = "connection"
	FaultResource     FaultKind = "resource"
)

// AllFaultKinds lists every injectable fault kind, in a stable order
func AllFaultKinds() []FaultKind {
	return []FaultKind{FaultInvalidValue, FaultRuntime, FaultConnection, FaultResource}
}

// ChaosMarker prefixes every injected fault message so log pipelines can
// filter injected failures out of real error streams
const ChaosMarker = "[CHAOS INJECTION]"

type Generic struct {
	Phase  string
	Reason string
}

func (e Generic) Error() string {
	if e.Phase == "" {
		return e.Reason
	}
	return fmt.Sprintf("[%s]: %s", e.Phase, e.Reason)
}

func (e Generic) UserFriendly() bool {
	return true
}

func (e Generic) ErrorType() ErrorType {
	return ErrorTypeGeneric
}

// InjectedFault is the error raised by fault injection on a service
type InjectedFault struct {
	Kind          FaultKind
	Service       string
	CorrelationID string
	Reason        string
}

func (e InjectedFault) Error() string {
	return fmt.Sprintf("%s %s fault on service '%s' (%s): %s", ChaosMarker, e.Kind, e.Service, e.CorrelationID, e.Reason)
}

func (e InjectedFault) UserFriendly() bool {
	return true
}

func (e InjectedFault) ErrorType() ErrorType {
	return ErrorTypeInjectedFault
}

type ExperimentGating struct {
	ExperimentID string
	Reason       string
}

func (e ExperimentGating) Error() string {
	if e.ExperimentID == "" {
		return fmt.Sprintf("experiment gating failed, %s", e.Reason)
	}
	return fmt.Sprintf("experiment '%s' gating failed, %s", e.ExperimentID, e.Reason)
}

func (e ExperimentGating) UserFriendly() bool {
	return true
}

func (e ExperimentGating) ErrorType() ErrorType {
	return ErrorTypeExperimentGating
}

type MetricCollection struct {
	Source string
	Reason string
}

func (e MetricCollection) Error() string {
	return fmt.Sprintf("failed to collect %s metrics, %s", e.Source, e.Reason)
}

func (e MetricCollection) UserFriendly() bool {
	return true
}

func (e MetricCollection) ErrorType() ErrorType {
	return ErrorTypeMetricCollection
}
