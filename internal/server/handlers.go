package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/staffing-console/internal/db"
	"github.com/jonathan/staffing-console/internal/pipeline"
	"github.com/jonathan/staffing-console/internal/server/middleware"
	"github.com/jonathan/staffing-console/internal/types"
)

// Error kinds surfaced in responses so the UI can show a specific
// message per failure.
const (
	errKindInvalidTransition = "invalid_transition"
	errKindUnauthorized      = "unauthorized"
	errKindValidation        = "validation_error"
	errKindMissingEvidence   = "missing_evidence"
	errKindAuthorization     = "authorization_error"
	errKindStaleSnapshot     = "stale_snapshot"
	errKindNotFound          = "not_found"
	errKindBadRequest        = "bad_request"
	errKindInternal          = "internal_error"
)

// engineError maps a typed engine failure onto a status code and error
// kind. Structural, authorization and validation failures each get a
// distinct kind.
func (s *Server) engineError(w http.ResponseWriter, err error) {
	var (
		invalid         *pipeline.InvalidTransitionError
		unauthorized    *pipeline.UnauthorizedError
		validation      *pipeline.ValidationError
		missingEvidence *pipeline.MissingEvidenceError
		authz           *pipeline.AuthorizationError
	)
	switch {
	case errors.As(err, &invalid):
		s.errorResponse(w, http.StatusUnprocessableEntity, errKindInvalidTransition, err.Error())
	case errors.As(err, &unauthorized):
		s.errorResponse(w, http.StatusForbidden, errKindUnauthorized, err.Error())
	case errors.As(err, &missingEvidence):
		s.errorResponse(w, http.StatusBadRequest, errKindMissingEvidence, err.Error())
	case errors.As(err, &validation):
		s.errorResponse(w, http.StatusBadRequest, errKindValidation, err.Error())
	case errors.As(err, &authz):
		s.errorResponse(w, http.StatusForbidden, errKindAuthorization, err.Error())
	default:
		s.storeError(w, err)
	}
}

// storeError maps persistence failures.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		s.errorResponse(w, http.StatusNotFound, errKindNotFound, "client not found")
	case errors.Is(err, db.ErrStaleSnapshot):
		s.errorResponse(w, http.StatusConflict, errKindStaleSnapshot, "client changed concurrently; reload and retry")
	default:
		s.errorResponse(w, http.StatusInternalServerError, errKindInternal, err.Error())
	}
}

func (s *Server) caller(w http.ResponseWriter, r *http.Request) (middleware.Caller, bool) {
	caller, err := middleware.GetCaller(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, errKindUnauthorized, "missing caller identity")
		return middleware.Caller{}, false
	}
	return caller, true
}

func (s *Server) clientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindBadRequest, "invalid client ID format")
		return uuid.Nil, false
	}
	return id, true
}

// handleCreateClient enters a new client into the pipeline at the sales
// stage.
func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}

	var req types.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindValidation, err.Error())
		return
	}

	client := types.NewPipelineClient(req.Name, caller.Role, time.Now().UTC())
	if err := s.store.CreateClient(r.Context(), client); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, client)
}

// handleGetClient returns a client snapshot with its stage history.
func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := s.clientID(w, r)
	if !ok {
		return
	}
	client, err := s.store.GetClient(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, client)
}

// handleTransition authorizes and commits a stage transition. The engine
// evaluates against the freshly loaded snapshot and the store commit is a
// compare-and-set, so a concurrent move surfaces as a 409.
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.clientID(w, r)
	if !ok {
		return
	}

	var req types.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindValidation, err.Error())
		return
	}

	client, err := s.store.GetClient(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	next, err := s.engine.RequestTransition(caller.Role, client, types.Stage(req.ToStage), pipeline.TransitionContext{
		BackedOutReason: req.BackedOutReason,
	})
	if err != nil {
		s.engineError(w, err)
		return
	}

	if err := s.store.CommitTransition(r.Context(), next, client.Status, client.Blocked); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, next)
}

// handleBlock sets the blocked flag when the caller's role may block in
// the client's current stage.
func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	s.toggleBlocked(w, r, true)
}

// handleUnblock clears the blocked flag, symmetric to handleBlock.
func (s *Server) handleUnblock(w http.ResponseWriter, r *http.Request) {
	s.toggleBlocked(w, r, false)
}

func (s *Server) toggleBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.clientID(w, r)
	if !ok {
		return
	}

	client, err := s.store.GetClient(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	var next *types.PipelineClient
	if blocked {
		next, err = s.engine.Block(caller.Role, client)
	} else {
		next, err = s.engine.Unblock(caller.Role, client)
	}
	if err != nil {
		s.engineError(w, err)
		return
	}

	if err := s.store.UpdateBlocked(r.Context(), next, client.Blocked); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, next)
}

// handleCompleteAction validates an action completion and stores its
// record. Advancing the stage afterwards is a separate transition call.
func (s *Server) handleCompleteAction(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.clientID(w, r)
	if !ok {
		return
	}

	var req types.CompleteActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindValidation, err.Error())
		return
	}

	client, err := s.store.GetClient(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	record, err := s.engine.CompleteAction(req.ActionName, caller.Role, client, pipeline.ActionPayload{
		Comment:     req.Comment,
		EvidenceRef: req.EvidenceRef,
		PerformedBy: caller.EmployeeID,
	})
	if err != nil {
		s.engineError(w, err)
		return
	}

	if err := s.store.InsertActionRecord(r.Context(), record); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, record)
}

// handleListActions returns a client's action audit trail.
func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.clientID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.GetClient(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	records, err := s.store.ListActionRecords(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if records == nil {
		records = []types.ActionRecord{}
	}
	s.jsonResponse(w, http.StatusOK, records)
}

// handleAssignRecruiter sets the client's recruiter assignment.
func (s *Server) handleAssignRecruiter(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.caller(w, r)
	if !ok {
		return
	}
	id, ok := s.clientID(w, r)
	if !ok {
		return
	}

	var req types.AssignRecruiterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindValidation, err.Error())
		return
	}
	recruiterID, err := uuid.Parse(req.RecruiterID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, errKindBadRequest, "invalid recruiter ID format")
		return
	}

	client, err := s.store.GetClient(r.Context(), id)
	if err != nil {
		s.storeError(w, err)
		return
	}

	next, err := s.engine.AssignRecruiter(caller.Role, client, recruiterID)
	if err != nil {
		s.engineError(w, err)
		return
	}

	if err := s.store.UpdateAssignment(r.Context(), next); err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, next)
}

// handleSummary derives pipeline statistics from the stored clients.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pipeline.Summarize(clients))
}
