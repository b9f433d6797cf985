// Package file provides file-based persistence for workflows and export
// artifacts. Each workflow is a JSON document under <root>/workflows and
// each artifact under <root>/artifacts/<workflow-id>.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/workflowwiz/wizard/pkg/persistence"
)

const dirPermissions = 0o755

// Persistence implements persistence.Persistence on the local file system.
type Persistence struct {
	root string
}

func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (p *Persistence) workflowsDir() string {
	return filepath.Join(p.root, "workflows")
}

func (p *Persistence) artifactsDir(workflowID string) string {
	return filepath.Join(p.root, "artifacts", workflowID)
}

func (p *Persistence) Workflows(_ context.Context) ([]*models.Workflow, error) {
	entries, err := os.ReadDir(p.workflowsDir())
	if os.IsNotExist(err) {
		return []*models.Workflow{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read workflows directory: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		workflow, err := p.readWorkflow(filepath.Join(p.workflowsDir(), entry.Name()))
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	sort.Slice(workflows, func(i, j int) bool { return workflows[i].ID < workflows[j].ID })

	return workflows, nil
}

func (p *Persistence) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	path := filepath.Join(p.workflowsDir(), id+".json")

	workflow, err := p.readWorkflow(path)
	if os.IsNotExist(err) {
		return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
	}

	if err != nil {
		return nil, persistence.NewWorkflowError("GetByID", id, err)
	}

	return workflow, nil
}

func (p *Persistence) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	if err := os.MkdirAll(p.workflowsDir(), dirPermissions); err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	payload, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	path := filepath.Join(p.workflowsDir(), workflow.ID+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	return nil
}

func (p *Persistence) DeleteWorkflow(_ context.Context, id string) error {
	path := filepath.Join(p.workflowsDir(), id+".json")

	err := os.Remove(path)
	if os.IsNotExist(err) {
		return persistence.NewWorkflowError("Delete", id, persistence.ErrWorkflowNotFound)
	}

	if err != nil {
		return persistence.NewWorkflowError("Delete", id, err)
	}

	return nil
}

func (p *Persistence) SaveArtifact(_ context.Context, artifact *models.ExportArtifact) error {
	dir := p.artifactsDir(artifact.WorkflowID)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	payload, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	path := filepath.Join(dir, artifact.Target+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	return nil
}

func (p *Persistence) ArtifactsByWorkflow(_ context.Context, workflowID string) ([]*models.ExportArtifact, error) {
	entries, err := os.ReadDir(p.artifactsDir(workflowID))
	if os.IsNotExist(err) {
		return []*models.ExportArtifact{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts directory: %w", err)
	}

	artifacts := make([]*models.ExportArtifact, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(p.artifactsDir(workflowID), entry.Name()))
		if err != nil {
			return nil, err
		}

		var artifact models.ExportArtifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			return nil, fmt.Errorf("failed to decode artifact %s: %w", entry.Name(), err)
		}

		artifacts = append(artifacts, &artifact)
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Target < artifacts[j].Target })

	return artifacts, nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close is a no-op for file persistence.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

func (p *Persistence) readWorkflow(path string) (*models.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("failed to decode workflow file %s: %w", path, err)
	}

	return &workflow, nil
}
