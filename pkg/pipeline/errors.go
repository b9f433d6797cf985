package pipeline

import (
	"errors"
	"fmt"

	"github.com/workflowwiz/wizard/pkg/models"
)

// UnresolvableError reports that the repair loop exhausted its budget
// without producing an accepted workflow. It carries the violations of the
// final rejected revision.
type UnresolvableError struct {
	WorkflowID string
	Attempts   int
	Violations []models.Violation
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf(
		"workflow %s could not be resolved after %d attempts (%d outstanding violations)",
		e.WorkflowID, e.Attempts, len(e.Violations),
	)
}

// IsUnresolvable checks if an error indicates an exhausted repair loop.
func IsUnresolvable(err error) bool {
	var target *UnresolvableError

	return errors.As(err, &target)
}
