package pipeline

import (
	"fmt"

	"github.com/jonathan/staffing-console/internal/types"
)

// InvalidTransitionError reports a requested edge that does not exist in
// the stage graph. This is a structural failure, distinct from a role
// lacking rights to an otherwise legal edge.
type InvalidTransitionError struct {
	From types.Stage
	To   types.Stage
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s is not a legal pipeline move", e.From, e.To)
}

// UnauthorizedError reports a structurally valid operation denied by the
// capability matrix for the caller's role.
type UnauthorizedError struct {
	Role      types.Role
	Operation string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: role %s may not %s", e.Role, e.Operation)
}

// ValidationError reports a missing or malformed field on an otherwise
// authorized request. Safe to retry after the caller corrects the field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// MissingEvidenceError reports an action whose definition requires an
// evidence attachment that was not supplied.
type MissingEvidenceError struct {
	Action string
}

func (e *MissingEvidenceError) Error() string {
	return fmt.Sprintf("missing evidence: action %q requires an evidence attachment", e.Action)
}

// AuthorizationError reports a block or unblock denied because the role's
// scope does not cover the client's current stage.
type AuthorizationError struct {
	Role      types.Role
	Operation string
	Stage     types.Stage
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization error: role %s may not %s a client in stage %s", e.Role, e.Operation, e.Stage)
}
