// Package tools maintains the registry of tool integrations available to
// the planner. Only design-time descriptors live here; invoking a tool is an
// execution-time concern outside this system.
package tools

import (
	"log/slog"
	"sort"

	"github.com/workflowwiz/wizard/pkg/models"
)

// Registry holds the tool descriptors the planner can bind workflow steps
// to. It is built once at startup and treated as immutable afterwards.
type Registry struct {
	logger      *slog.Logger
	descriptors map[string]*models.ToolDescriptor
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:      log,
		descriptors: make(map[string]*models.ToolDescriptor),
	}
}

func (r *Registry) Register(descriptor *models.ToolDescriptor) {
	r.descriptors[descriptor.ID] = descriptor
	r.logger.Debug("Registered tool", "tool", descriptor.ID)
}

func (r *Registry) Get(id string) (*models.ToolDescriptor, bool) {
	descriptor, ok := r.descriptors[id]

	return descriptor, ok
}

// All returns every registered descriptor sorted by id.
func (r *Registry) All() []*models.ToolDescriptor {
	all := make([]*models.ToolDescriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		all = append(all, d)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return all
}

// IDs returns the sorted ids of all registered tools.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// FindByAction returns all tools offering the given action, sorted by id.
func (r *Registry) FindByAction(action string) []*models.ToolDescriptor {
	var matches []*models.ToolDescriptor

	for _, d := range r.descriptors {
		if _, ok := d.Capability(action); ok {
			matches = append(matches, d)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	return matches
}

func (r *Registry) HealthCheck() (string, bool) {
	if len(r.descriptors) == 0 {
		return "No tools registered", false
	}

	return "Tool registry is healthy", true
}
