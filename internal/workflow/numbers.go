package workflow

import (
	"strings"

	"github.com/google/uuid"
)

const (
	EstimatePrefix = "EST-"
	ProjectPrefix  = "PROJ-"
)

// NumberGenerator returns a new human-facing record number.
type NumberGenerator func() string

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// NewEstimateNumber returns EST- followed by 8 upper-case hex digits.
func NewEstimateNumber() string {
	return EstimatePrefix + randomSuffix()
}

// NewProjectNumber returns PROJ- followed by 8 upper-case hex digits.
func NewProjectNumber() string {
	return ProjectPrefix + randomSuffix()
}
