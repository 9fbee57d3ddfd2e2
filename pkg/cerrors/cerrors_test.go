package cerrors

import (
	"strings"
	"testing"

	"github.com/palantir/stacktrace"
)

func TestInjectedFaultCarriesChaosMarker(t *testing.T) {
	fault := InjectedFault{
		Kind:          FaultConnection,
		Service:       "svc-a",
		CorrelationID: "chaos_1_0",
		Reason:        "injected for experiment",
	}

	if !strings.HasPrefix(fault.Error(), ChaosMarker) {
		t.Errorf("Expected fault message to carry the chaos marker, got %q", fault.Error())
	}

	if GetErrorType(fault) != ErrorTypeInjectedFault {
		t.Errorf("Expected error type %v, got %v", ErrorTypeInjectedFault, GetErrorType(fault))
	}

	if !IsUserFriendly(fault) {
		t.Error("Expected injected faults to be user friendly")
	}
}

func TestIsInjectedThroughWrapping(t *testing.T) {
	fault := InjectedFault{Kind: FaultRuntime, Service: "svc-a", Reason: "boom"}
	wrapped := stacktrace.Propagate(fault, "call boundary")

	if !IsInjected(wrapped) {
		t.Error("Expected wrapped injected fault to still be recognized")
	}

	if IsInjected(Generic{Reason: "real failure"}) {
		t.Error("Expected a generic error not to be recognized as injected")
	}
}

func TestAllFaultKindsClosedSet(t *testing.T) {
	kinds := AllFaultKinds()
	if len(kinds) != 4 {
		t.Fatalf("Expected 4 fault kinds, got %d", len(kinds))
	}

	expected := []FaultKind{FaultInvalidValue, FaultRuntime, FaultConnection, FaultResource}
	for i, kind := range kinds {
		if kind != expected[i] {
			t.Errorf("Expected kind %v at position %d, got %v", expected[i], i, kind)
		}
	}
}

func TestGetRootCauseAndErrorCode(t *testing.T) {
	fault := InjectedFault{Kind: FaultResource, Service: "svc-a", Reason: "exhausted"}
	wrapped := stacktrace.Propagate(fault, "scheduling injection")

	rootCause, errorType := GetRootCauseAndErrorCode(wrapped)
	if errorType != ErrorTypeInjectedFault {
		t.Errorf("Expected error type %v, got %v", ErrorTypeInjectedFault, errorType)
	}
	if !strings.Contains(rootCause, "exhausted") {
		t.Errorf("Expected root cause to carry the original reason, got %q", rootCause)
	}
}
