package pipeline

import (
	"github.com/google/uuid"
	"github.com/jonathan/staffing-console/internal/types"
)

// ActionDefinition is the static description of a workflow action.
type ActionDefinition struct {
	Name             string
	Description      string
	RequiresEvidence bool
}

// ActionCatalog maps action names to their static definitions. Built
// once at startup; never mutated at runtime.
type ActionCatalog map[string]ActionDefinition

// Built-in workflow action names.
const (
	ActionUploadAgreement   = "UploadAgreement"
	ActionScheduleIntroCall = "ScheduleIntroCall"
	ActionSubmitResumeDraft = "SubmitResumeDraft"
	ActionRecordReference   = "RecordReference"
)

// DefaultActionCatalog returns the built-in action definitions.
func DefaultActionCatalog() ActionCatalog {
	return ActionCatalog{
		ActionUploadAgreement: {
			Name:             ActionUploadAgreement,
			Description:      "Upload the signed client agreement",
			RequiresEvidence: true,
		},
		ActionScheduleIntroCall: {
			Name:        ActionScheduleIntroCall,
			Description: "Schedule the introductory call with the client",
		},
		ActionSubmitResumeDraft: {
			Name:             ActionSubmitResumeDraft,
			Description:      "Submit the drafted resume for client review",
			RequiresEvidence: true,
		},
		ActionRecordReference: {
			Name:        ActionRecordReference,
			Description: "Record a completed reference check",
		},
	}
}

// ActionPayload carries the caller-supplied fields of a completion
// request. EvidenceRef is an opaque reference produced by the external
// file store; the engine only checks its presence.
type ActionPayload struct {
	Comment     string
	EvidenceRef string
	PerformedBy uuid.UUID
}

// CompleteAction validates an action completion and returns its
// immutable ActionRecord. It never transitions the client; advancing the
// stage afterwards is the caller's responsibility. Deliberately not
// idempotent: every successful call is a distinct audited event.
func (e *Engine) CompleteAction(actionName string, role types.Role, client *types.PipelineClient, payload ActionPayload) (*types.ActionRecord, error) {
	if !e.matrix.CanPerformAction(role) {
		return nil, &UnauthorizedError{Role: role, Operation: "perform workflow actions"}
	}
	def, ok := e.catalog[actionName]
	if !ok {
		return nil, &ValidationError{Field: "action_name", Message: "unknown action " + actionName}
	}
	if def.RequiresEvidence && payload.EvidenceRef == "" {
		return nil, &MissingEvidenceError{Action: actionName}
	}
	return &types.ActionRecord{
		ID:          uuid.New(),
		ClientID:    client.ID,
		ActionName:  def.Name,
		Comment:     payload.Comment,
		EvidenceRef: payload.EvidenceRef,
		PerformedBy: payload.PerformedBy,
		Role:        role,
		PerformedAt: e.now(),
	}, nil
}
