package pipeline

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/staffing-console/internal/types"
)

// TransitionContext carries the per-request fields a transition may need
// beyond the target stage.
type TransitionContext struct {
	// BackedOutReason is required when the target stage is backed-out.
	BackedOutReason string
}

// RequestTransition evaluates a requested stage transition and, when
// every gate passes, returns an updated client snapshot with the new
// status and an appended stage history entry. Gates run in order:
//
//  1. structural edge in the stage graph (InvalidTransitionError)
//  2. role capability for the edge (UnauthorizedError)
//  3. backed-out reason present when required (ValidationError)
//  4. blocked-client policy, when configured (ValidationError)
//
// No gate mutates anything; the input snapshot is never modified.
func (e *Engine) RequestTransition(role types.Role, client *types.PipelineClient, to types.Stage, tctx TransitionContext) (*types.PipelineClient, error) {
	if !to.IsValid() {
		return nil, &InvalidTransitionError{From: client.Status, To: to}
	}
	if !structuralTarget(client, to) {
		return nil, &InvalidTransitionError{From: client.Status, To: to}
	}
	if !e.matrix.CanTransition(role, client.Status, to) {
		return nil, &UnauthorizedError{Role: role, Operation: "transition " + client.Status.String() + " -> " + to.String()}
	}
	if to == types.StageBackedOut && strings.TrimSpace(tctx.BackedOutReason) == "" {
		return nil, &ValidationError{Field: "backed_out_reason", Message: "required when backing out a client"}
	}
	if e.policy.DenyBlockedTransitions && client.Blocked {
		return nil, &ValidationError{Field: "blocked", Message: "client is blocked; unblock before transitioning"}
	}

	now := e.now()
	next := client.Clone()
	if to == types.StageOnHold {
		next.HeldFromStage = client.Status
	} else if client.Status == types.StageOnHold {
		next.HeldFromStage = ""
	}
	if to == types.StageBackedOut {
		next.BackedOutReason = strings.TrimSpace(tctx.BackedOutReason)
	}
	next.Status = to
	next.StageHistory = append(next.StageHistory, types.StageEvent{
		Status:    to,
		EnteredAt: now,
		ChangedBy: role,
	})
	next.UpdatedAt = now
	return next, nil
}

// AssignRecruiter returns a snapshot with the recruiter assignment set.
// Assignment rights are role-wide, not stage-scoped.
func (e *Engine) AssignRecruiter(role types.Role, client *types.PipelineClient, recruiterID uuid.UUID) (*types.PipelineClient, error) {
	if !e.matrix.CanAssignRecruiter(role) {
		return nil, &UnauthorizedError{Role: role, Operation: "assign a recruiter"}
	}
	if recruiterID == uuid.Nil {
		return nil, &ValidationError{Field: "recruiter_id", Message: "must be a non-zero identifier"}
	}
	next := client.Clone()
	next.AssignedRecruiterID = &recruiterID
	next.UpdatedAt = e.now()
	return next, nil
}

// ReplayHistory recomputes the final status implied by a stage history.
// An empty history yields the empty stage. Used to audit that a stored
// snapshot's status matches its append-only log.
func ReplayHistory(history []types.StageEvent) types.Stage {
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1].Status
}
