package cerrors

import "github.com/palantir/stacktrace"

type ErrorType string

const (
	ErrorTypeNonUserFriendly  ErrorType = "NON_USER_FRIENDLY_ERROR"
	ErrorTypeGeneric          ErrorType = "GENERIC_ERROR"
	ErrorTypeExperimentGating ErrorType = "EXPERIMENT_GATING_ERROR"
	ErrorTypeInjectedFault    ErrorType = "INJECTED_FAULT"
	ErrorTypeMetricCollection ErrorType = "METRIC_COLLECTION_ERROR"
)

type userFriendly interface {
	UserFriendly() bool
	ErrorType() ErrorType
}

// IsUserFriendly returns true if err is marked as safe to present in experiment results
func IsUserFriendly(err error) bool {
	ufe, ok := err.(userFriendly)
	return ok && ufe.UserFriendly()
}

// GetErrorType returns the type of error if the error is user-friendly
func GetErrorType(err error) ErrorType {
	if ufe, ok := err.(userFriendly); ok {
		return ufe.ErrorType()
	}
	return ErrorTypeNonUserFriendly
}

func GetRootCauseAndErrorCode(err error) (string, ErrorType) {
	rootCause := stacktrace.RootCause(err)
	errorType := GetErrorType(rootCause)
	if !IsUserFriendly(rootCause) {
		return err.Error(), errorType
	}
	return rootCause.Error(), errorType
}

// IsInjected reports whether err originated from a chaos fault injection,
// so callers can tell injected failures apart from real ones
func IsInjected(err error) bool {
	_, ok := stacktrace.RootCause(err).(InjectedFault)
	return ok
}
