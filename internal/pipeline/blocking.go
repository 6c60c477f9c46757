package pipeline

import (
	"github.com/jonathan/staffing-console/internal/types"
)

// Block returns a snapshot with the blocked flag set. Allowed only when
// the role's block scope covers the client's current stage. Blocking
// never touches the status or the stage history.
func (e *Engine) Block(role types.Role, client *types.PipelineClient) (*types.PipelineClient, error) {
	if !e.matrix.CanBlock(role, client.Status) {
		return nil, &AuthorizationError{Role: role, Operation: "block", Stage: client.Status}
	}
	next := client.Clone()
	next.Blocked = true
	next.UpdatedAt = e.now()
	return next, nil
}

// Unblock is the symmetric counterpart of Block, checked against the
// role's unblock scope.
func (e *Engine) Unblock(role types.Role, client *types.PipelineClient) (*types.PipelineClient, error) {
	if !e.matrix.CanUnblock(role, client.Status) {
		return nil, &AuthorizationError{Role: role, Operation: "unblock", Stage: client.Status}
	}
	next := client.Clone()
	next.Blocked = false
	next.UpdatedAt = e.now()
	return next, nil
}
