// Package httpapi provides a collaborator backed by an external inference
// service over HTTP.
//
// The service receives {"prompt": ..., "schema": ...} and must answer with a
// single JSON object satisfying the schema. Transport failures never leak to
// callers; they surface as collaborator errors.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/workflowwiz/wizard/pkg/collaborator"
	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

const defaultTimeout = 60 * time.Second

// Collaborator calls a remote inference endpoint.
type Collaborator struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string) *Collaborator {
	return &Collaborator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

type inferenceRequest struct {
	Prompt string             `json:"prompt"`
	Schema *models.JSONSchema `json:"schema,omitempty"`
}

// Infer posts the prompt to the inference endpoint and validates the reply
// against the expected schema.
func (c *Collaborator) Infer(ctx context.Context, prompt string, schema *models.JSONSchema) (map[string]any, error) {
	body, err := json.Marshal(inferenceRequest{Prompt: prompt, Schema: schema})
	if err != nil {
		return nil, collaborator.NewError("infer", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, collaborator.NewError("infer", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, collaborator.NewError("infer", collaborator.ErrUnavailable)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, collaborator.NewError("infer", collaborator.ErrRateLimited)
	case resp.StatusCode >= 500:
		return nil, collaborator.NewError("infer", collaborator.ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, collaborator.NewError("infer",
			fmt.Errorf("%w: status %d", collaborator.ErrMalformedResponse, resp.StatusCode))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, collaborator.NewError("infer", collaborator.ErrUnavailable)
	}

	var result map[string]any
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, collaborator.NewError("infer", collaborator.ErrMalformedResponse)
	}

	if schema != nil {
		if err := validateAgainstSchema(result, schema); err != nil {
			return nil, collaborator.NewError("infer", err)
		}
	}

	return result, nil
}

func validateAgainstSchema(result map[string]any, schema *models.JSONSchema) error {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return err
	}

	outcome, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(result),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", collaborator.ErrMalformedResponse, err)
	}

	if !outcome.Valid() {
		return fmt.Errorf("%w: %v", collaborator.ErrMalformedResponse, outcome.Errors())
	}

	return nil
}
