//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// ActionRecord is the immutable audit entry produced when a workflow
// action completes. Each call to the action protocol creates a new
// record; records are never updated or deleted.
type ActionRecord struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	ActionName  string    `json:"action_name"`
	Comment     string    `json:"comment,omitempty"`
	EvidenceRef string    `json:"evidence_ref,omitempty"`
	PerformedBy uuid.UUID `json:"performed_by"`
	Role        Role      `json:"role"`
	PerformedAt time.Time `json:"performed_at"`
}

// PipelineSummary holds the read-only statistics derived from a client
// collection.
type PipelineSummary struct {
	Total          int           `json:"total"`
	ByStage        map[Stage]int `json:"by_stage"`
	Blocked        int           `json:"blocked"`
	ActiveRate     float64       `json:"active_rate"`
	ConversionRate float64       `json:"conversion_rate"`
}
