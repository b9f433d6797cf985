// Package redis provides Redis-backed persistence for workflows and export
// artifacts.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"
	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/workflowwiz/wizard/pkg/persistence"
)

const (
	workflowKeyPrefix = "wizard:workflows:"
	workflowIndexKey  = "wizard:workflows"
	artifactKeyPrefix = "wizard:artifacts:"
)

// Persistence implements persistence.Persistence on a Redis instance.
type Persistence struct {
	client goredis.UniversalClient
}

// NewPersistence connects to the Redis instance described by url
// (redis://host:port/db).
func NewPersistence(url string) (*Persistence, error) {
	options, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &Persistence{client: goredis.NewClient(options)}, nil
}

func (p *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	ids, err := p.client.SMembers(ctx, workflowIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	// Set members come back in arbitrary order.
	sort.Strings(ids)

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := p.WorkflowByID(ctx, id)
		if persistence.IsWorkflowNotFound(err) {
			continue
		}

		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	data, err := p.client.Get(ctx, workflowKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
	}

	if err != nil {
		return nil, persistence.NewWorkflowError("GetByID", id, err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, persistence.NewWorkflowError("GetByID", id, err)
	}

	return &workflow, nil
}

func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	payload, err := json.Marshal(workflow)
	if err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, workflowKeyPrefix+workflow.ID, payload, 0)
	pipe.SAdd(ctx, workflowIndexKey, workflow.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return persistence.NewWorkflowError("Save", workflow.ID, err)
	}

	return nil
}

func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	removed, err := p.client.Del(ctx, workflowKeyPrefix+id).Result()
	if err != nil {
		return persistence.NewWorkflowError("Delete", id, err)
	}

	if removed == 0 {
		return persistence.NewWorkflowError("Delete", id, persistence.ErrWorkflowNotFound)
	}

	pipe := p.client.TxPipeline()
	pipe.SRem(ctx, workflowIndexKey, id)
	pipe.Del(ctx, artifactKeyPrefix+id)

	if _, err := pipe.Exec(ctx); err != nil {
		return persistence.NewWorkflowError("Delete", id, err)
	}

	return nil
}

func (p *Persistence) SaveArtifact(ctx context.Context, artifact *models.ExportArtifact) error {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	key := artifactKeyPrefix + artifact.WorkflowID
	if err := p.client.HSet(ctx, key, artifact.Target, payload).Err(); err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}

	return nil
}

func (p *Persistence) ArtifactsByWorkflow(ctx context.Context, workflowID string) ([]*models.ExportArtifact, error) {
	entries, err := p.client.HGetAll(ctx, artifactKeyPrefix+workflowID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	artifacts := make([]*models.ExportArtifact, 0, len(entries))

	for _, payload := range entries {
		var artifact models.ExportArtifact
		if err := json.Unmarshal([]byte(payload), &artifact); err != nil {
			return nil, fmt.Errorf("failed to decode artifact: %w", err)
		}

		artifacts = append(artifacts, &artifact)
	}

	// Hash fields come back in arbitrary order.
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Target < artifacts[j].Target })

	return artifacts, nil
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}
