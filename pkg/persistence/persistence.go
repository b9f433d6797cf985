// Package persistence abstracts storage of designed workflows and their
// export artifacts.
package persistence

import (
	"context"

	"github.com/workflowwiz/wizard/pkg/models"
)

type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error

	SaveArtifact(ctx context.Context, artifact *models.ExportArtifact) error
	ArtifactsByWorkflow(ctx context.Context, workflowID string) ([]*models.ExportArtifact, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
