//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// StageEvent is one entry in a client's stage history.
// Entries are append-only and never mutated after insert.
type StageEvent struct {
	Status    Stage     `json:"status"`
	EnteredAt time.Time `json:"entered_at"`
	ChangedBy Role      `json:"changed_by"`
}

// PipelineClient is a snapshot of a candidate-client moving through the
// recruiting pipeline. The engine receives a snapshot, applies an
// operation, and returns a new snapshot; persistence is owned by the
// caller.
type PipelineClient struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name,omitempty"`
	Status Stage     `json:"status"`

	// Blocked is orthogonal to Status; toggling it never touches the
	// stage history.
	Blocked bool `json:"blocked"`

	// HeldFromStage records the stage a client occupied when it entered
	// on-hold. Empty outside of on-hold.
	HeldFromStage Stage `json:"held_from_stage,omitempty"`

	AssignedRecruiterID   *uuid.UUID `json:"assigned_recruiter_id,omitempty"`
	AssignedSalesPersonID *uuid.UUID `json:"assigned_sales_person_id,omitempty"`

	// BackedOutReason is required whenever Status is backed-out.
	BackedOutReason string `json:"backed_out_reason,omitempty"`

	StageHistory []StageEvent `json:"stage_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPipelineClient creates a client entering the pipeline at the sales
// stage, with its history seeded by the creating role.
func NewPipelineClient(name string, createdBy Role, now time.Time) *PipelineClient {
	return &PipelineClient{
		ID:     uuid.New(),
		Name:   name,
		Status: StageSales,
		StageHistory: []StageEvent{
			{Status: StageSales, EnteredAt: now, ChangedBy: createdBy},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the client. Engine operations mutate a
// clone so a failed check leaves the caller's snapshot untouched.
func (c *PipelineClient) Clone() *PipelineClient {
	dup := *c
	dup.StageHistory = make([]StageEvent, len(c.StageHistory))
	copy(dup.StageHistory, c.StageHistory)
	if c.AssignedRecruiterID != nil {
		id := *c.AssignedRecruiterID
		dup.AssignedRecruiterID = &id
	}
	if c.AssignedSalesPersonID != nil {
		id := *c.AssignedSalesPersonID
		dup.AssignedSalesPersonID = &id
	}
	return &dup
}

// CurrentStageEvent returns the most recent stage history entry, or nil
// for a client with no history.
func (c *PipelineClient) CurrentStageEvent() *StageEvent {
	if len(c.StageHistory) == 0 {
		return nil
	}
	return &c.StageHistory[len(c.StageHistory)-1]
}
