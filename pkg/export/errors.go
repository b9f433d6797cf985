package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/workflowwiz/wizard/pkg/models"
)

// UnsupportedTargetError is returned when no renderer is registered for the
// requested platform.
type UnsupportedTargetError struct {
	Target     string
	Registered []string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("unsupported export target %q (registered targets: %s)",
		e.Target, strings.Join(e.Registered, ", "))
}

// IsUnsupportedTarget reports whether err indicates an unknown export
// target.
func IsUnsupportedTarget(err error) bool {
	var target *UnsupportedTargetError

	return errors.As(err, &target)
}

// PreconditionError indicates a programming-contract violation: exporting a
// workflow that has not been accepted by the validator. It is not a
// recoverable runtime case.
type PreconditionError struct {
	WorkflowID string
	Status     models.WorkflowStatus
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("workflow %s has status %q; only accepted workflows can be exported",
		e.WorkflowID, e.Status)
}

// IsPreconditionError reports whether err indicates an export of an
// unvalidated workflow.
func IsPreconditionError(err error) bool {
	var target *PreconditionError

	return errors.As(err, &target)
}
