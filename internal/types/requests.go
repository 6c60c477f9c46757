//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// CreateClientRequest represents the request to enter a new client into
// the pipeline.
type CreateClientRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// TransitionRequest represents a request to move a client to a new stage.
// BackedOutReason is required by the engine when the target is backed-out;
// the struct-level validation here only checks shape.
type TransitionRequest struct {
	ToStage         string `json:"to_stage" validate:"required"`
	BackedOutReason string `json:"backed_out_reason,omitempty"`
}

// CompleteActionRequest represents a request to complete a workflow
// action for a client.
type CompleteActionRequest struct {
	ActionName  string `json:"action_name" validate:"required"`
	Comment     string `json:"comment,omitempty"`
	EvidenceRef string `json:"evidence_ref,omitempty"`
}

// AssignRecruiterRequest represents a request to assign a recruiter to a
// client.
type AssignRecruiterRequest struct {
	RecruiterID string `json:"recruiter_id" validate:"required,uuid"`
}

// Validate validates the CreateClientRequest using the validator.
func (r *CreateClientRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TransitionRequest using the validator.
func (r *TransitionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CompleteActionRequest using the validator.
func (r *CompleteActionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the AssignRecruiterRequest using the validator.
func (r *AssignRecruiterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
