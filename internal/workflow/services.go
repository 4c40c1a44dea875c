package workflow

import (
	"fmt"
	"strings"

	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

// validateServices trims, de-duplicates and checks every requested service
// against the catalog for projectType. Submission order is kept.
func validateServices(projectType models.ProjectType, services []string) ([]string, error) {
	if !projectType.Valid() {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidProjectType, projectType)
	}

	seen := make(map[string]bool, len(services))
	out := make([]string, 0, len(services))
	for _, s := range services {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		if !projectType.AllowsService(s) {
			return nil, fmt.Errorf("%w: %q is not offered for %s", utils.ErrUnknownService, s, projectType)
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: select at least one service", utils.ErrValidation)
	}
	return out, nil
}

func validateSqft(sqft *int) error {
	if sqft != nil && *sqft < 0 {
		return fmt.Errorf("%w: total_sqft must not be negative", utils.ErrValidation)
	}
	return nil
}
