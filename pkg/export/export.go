// Package export renders accepted workflows into target-platform formats
// through a pluggable renderer registry.
package export

import (
	"log/slog"
	"sort"

	"github.com/workflowwiz/wizard/pkg/models"
)

// Renderer converts an accepted workflow into one platform's native
// representation. Renderers are deterministic pure functions: the same
// workflow always renders to byte-identical output, and the input is never
// mutated.
type Renderer interface {
	PlatformID() string
	Format() string
	Render(workflow *models.Workflow) ([]byte, error)
}

// Registry holds the renderers keyed by platform id. It is built once at
// startup and treated as immutable afterwards.
type Registry struct {
	logger    *slog.Logger
	renderers map[string]Renderer
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log,
		renderers: make(map[string]Renderer),
	}
}

func (r *Registry) Register(renderer Renderer) {
	r.renderers[renderer.PlatformID()] = renderer
	r.logger.Debug("Registered export renderer", "target", renderer.PlatformID())
}

// Targets returns the sorted platform ids of all registered renderers.
func (r *Registry) Targets() []string {
	targets := make([]string, 0, len(r.renderers))
	for id := range r.renderers {
		targets = append(targets, id)
	}

	sort.Strings(targets)

	return targets
}

// Export renders the workflow for the given target. The workflow must carry
// an accepted validation result; anything else is a caller bug surfaced as a
// PreconditionError.
func (r *Registry) Export(workflow *models.Workflow, target string) (*models.ExportArtifact, error) {
	if !workflow.IsAccepted() {
		return nil, &PreconditionError{WorkflowID: workflow.ID, Status: workflow.Status}
	}

	renderer, ok := r.renderers[target]
	if !ok {
		return nil, &UnsupportedTargetError{Target: target, Registered: r.Targets()}
	}

	payload, err := renderer.Render(workflow)
	if err != nil {
		return nil, err
	}

	return models.NewExportArtifact(workflow.ID, target, renderer.Format(), payload), nil
}

func (r *Registry) HealthCheck() (string, bool) {
	if len(r.renderers) == 0 {
		return "No export renderers registered", false
	}

	return "Export registry is healthy", true
}
