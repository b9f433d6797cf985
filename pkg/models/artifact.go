package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ExportArtifact is the terminal output of the pipeline: a validated
// workflow rendered into a target platform's native representation. It is
// never fed back into the pipeline.
type ExportArtifact struct {
	WorkflowID string    `json:"workflow_id"`
	Target     string    `json:"target"`
	Format     string    `json:"format"`
	Payload    []byte    `json:"payload"`
	Checksum   string    `json:"checksum"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewExportArtifact builds an artifact for the given payload, stamping the
// payload checksum so identical renders are verifiable.
func NewExportArtifact(workflowID, target, format string, payload []byte) *ExportArtifact {
	sum := sha256.Sum256(payload)

	return &ExportArtifact{
		WorkflowID: workflowID,
		Target:     target,
		Format:     format,
		Payload:    payload,
		Checksum:   hex.EncodeToString(sum[:]),
		CreatedAt:  time.Now().UTC(),
	}
}
