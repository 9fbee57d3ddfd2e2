package stringutils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GetExperimentID generates a fresh experiment id from the current time and
// a random component, ids are never reused across a process lifetime
func GetExperimentID() string {
	return fmt.Sprintf("chaos_%d_%s", time.Now().Unix(), uuid.NewString()[:8])
}

// GetCorrelationID derives the correlation id for the nth scheduled injection
// of an experiment
func GetCorrelationID(experimentID string, sequence int) string {
	return fmt.Sprintf("%s_%d", experimentID, sequence)
}
