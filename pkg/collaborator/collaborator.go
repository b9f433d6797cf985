// Package collaborator defines the boundary to the language-understanding
// collaborator used by the intent and planner stages.
//
// Prompts are free text ending with a final "Request:" section that carries
// the stage payload (the raw user request for intent analysis, the intent
// JSON for planning). Implementations that do not need the surrounding
// instructions may parse only that section.
package collaborator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/workflowwiz/wizard/pkg/models"
)

// RequestSection separates prompt instructions from the stage payload.
const RequestSection = "Request:"

// Collaborator produces structured data for a prompt. The returned map is
// expected to satisfy the given schema; implementations should validate
// before returning.
type Collaborator interface {
	Infer(ctx context.Context, prompt string, schema *models.JSONSchema) (map[string]any, error)
}

// Failure classes surfaced by collaborator implementations.
var (
	ErrUnavailable       = errors.New("collaborator unavailable")
	ErrMalformedResponse = errors.New("malformed collaborator response")
	ErrRateLimited       = errors.New("collaborator rate limited")
)

// Error wraps an implementation failure, hiding transport-specific detail
// from calling stages.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("collaborator %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err as a collaborator failure for the given operation.
func NewError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// IsCollaboratorError reports whether err originated at the collaborator
// boundary.
func IsCollaboratorError(err error) bool {
	var target *Error

	return errors.As(err, &target)
}

const (
	maxAttempts    = 3
	initialBackoff = 200 * time.Millisecond
)

// Infer calls c with bounded backoff between attempts. Malformed responses
// are not retried; transient failures (unavailable, rate limited) are.
func Infer(ctx context.Context, c Collaborator, prompt string, schema *models.JSONSchema) (map[string]any, error) {
	backoff := initialBackoff

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := c.Infer(ctx, prompt, schema)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if errors.Is(err, ErrMalformedResponse) || ctx.Err() != nil {
			break
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	return nil, lastErr
}

// Payload extracts the stage payload from a prompt: everything after the
// last RequestSection marker.
func Payload(prompt string) string {
	idx := strings.LastIndex(prompt, RequestSection)
	if idx < 0 {
		return strings.TrimSpace(prompt)
	}

	return strings.TrimSpace(prompt[idx+len(RequestSection):])
}
