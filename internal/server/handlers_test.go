package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/staffing-console/internal/db"
	"github.com/jonathan/staffing-console/internal/pipeline"
	"github.com/jonathan/staffing-console/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with the same compare-and-set
// semantics as the PostgreSQL implementation. blockAfterGet simulates a
// writer that blocks the client between a handler's load and its commit.
type fakeStore struct {
	clients       map[uuid.UUID]*types.PipelineClient
	records       map[uuid.UUID][]types.ActionRecord
	blockAfterGet bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clients: make(map[uuid.UUID]*types.PipelineClient),
		records: make(map[uuid.UUID][]types.ActionRecord),
	}
}

func (f *fakeStore) CreateClient(_ context.Context, client *types.PipelineClient) error {
	f.clients[client.ID] = client.Clone()
	return nil
}

func (f *fakeStore) GetClient(_ context.Context, id uuid.UUID) (*types.PipelineClient, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	snapshot := client.Clone()
	if f.blockAfterGet {
		client.Blocked = true
	}
	return snapshot, nil
}

func (f *fakeStore) ListClients(_ context.Context) ([]types.PipelineClient, error) {
	out := make([]types.PipelineClient, 0, len(f.clients))
	for _, client := range f.clients {
		out = append(out, *client.Clone())
	}
	return out, nil
}

func (f *fakeStore) CommitTransition(_ context.Context, next *types.PipelineClient, prevStatus types.Stage, prevBlocked bool) error {
	stored, ok := f.clients[next.ID]
	if !ok {
		return db.ErrNotFound
	}
	if stored.Status != prevStatus || stored.Blocked != prevBlocked {
		return db.ErrStaleSnapshot
	}
	f.clients[next.ID] = next.Clone()
	return nil
}

func (f *fakeStore) UpdateBlocked(_ context.Context, next *types.PipelineClient, prevBlocked bool) error {
	stored, ok := f.clients[next.ID]
	if !ok {
		return db.ErrNotFound
	}
	if stored.Blocked != prevBlocked || stored.Status != next.Status {
		return db.ErrStaleSnapshot
	}
	f.clients[next.ID] = next.Clone()
	return nil
}

func (f *fakeStore) UpdateAssignment(_ context.Context, next *types.PipelineClient) error {
	if _, ok := f.clients[next.ID]; !ok {
		return db.ErrNotFound
	}
	f.clients[next.ID] = next.Clone()
	return nil
}

func (f *fakeStore) InsertActionRecord(_ context.Context, record *types.ActionRecord) error {
	f.records[record.ClientID] = append(f.records[record.ClientID], *record)
	return nil
}

func (f *fakeStore) ListActionRecords(_ context.Context, clientID uuid.UUID) ([]types.ActionRecord, error) {
	return f.records[clientID], nil
}

func (f *fakeStore) Close() {}

type serverFixture struct {
	server *Server
	store  *fakeStore
}

func newServerFixture(opts ...pipeline.Option) *serverFixture {
	store := newFakeStore()
	return &serverFixture{
		server: newServer(0, store, pipeline.New(opts...), newTestJWTService()),
		store:  store,
	}
}

func (fx *serverFixture) seedClient(stage types.Stage) *types.PipelineClient {
	client := types.NewPipelineClient("Dana Whitfield", types.RoleSalesExecutive, time.Now().UTC())
	client.Status = stage
	if stage != types.StageSales {
		client.StageHistory = append(client.StageHistory, types.StageEvent{
			Status:    stage,
			EnteredAt: time.Now().UTC(),
			ChangedBy: types.RoleAdmin,
		})
	}
	fx.store.clients[client.ID] = client
	return client
}

func (fx *serverFixture) request(t *testing.T, method, path, role string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)

	if role != "" {
		token, err := fx.server.jwtService.GenerateToken(uuid.New(), role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	fx.server.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHandleHealth_NoAuthRequired(t *testing.T) {
	fx := newServerFixture()
	rec := fx.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	fx := newServerFixture()
	rec := fx.request(t, http.MethodGet, "/pipeline/summary", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleCreateClient(t *testing.T) {
	fx := newServerFixture()

	rec := fx.request(t, http.MethodPost, "/clients", "Sales_Executive", types.CreateClientRequest{Name: "Dana Whitfield"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var client types.PipelineClient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &client))
	assert.Equal(t, types.StageSales, client.Status)
	require.Len(t, client.StageHistory, 1)
	assert.Equal(t, types.RoleSalesExecutive, client.StageHistory[0].ChangedBy)

	rec = fx.request(t, http.MethodPost, "/clients", "Sales_Executive", types.CreateClientRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTransition_Success(t *testing.T) {
	fx := newServerFixture()
	client := fx.seedClient(types.StageSales)

	rec := fx.request(t, http.MethodPost, "/clients/"+client.ID.String()+"/transition", "Sales_Executive",
		types.TransitionRequest{ToStage: "resume"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated types.PipelineClient
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, types.StageResume, updated.Status)
	assert.Len(t, updated.StageHistory, 2)

	stored := fx.store.clients[client.ID]
	assert.Equal(t, types.StageResume, stored.Status)
}

func TestHandleTransition_ErrorKinds(t *testing.T) {
	fx := newServerFixture()

	t.Run("structural error", func(t *testing.T) {
		client := fx.seedClient(types.StageSales)
		rec := fx.request(t, http.MethodPost, "/clients/"+client.ID.String()+"/transition", "Admin",
			types.TransitionRequest{ToStage: "marketing"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "invalid_transition", decodeError(t, rec)["error"])
	})

	t.Run("authorization error", func(t *testing.T) {
		client := fx.seedClient(types.StageResume)
		rec := fx.request(t, http.MethodPost, "/clients/"+client.ID.String()+"/transition", "Sales_Executive",
			types.TransitionRequest{ToStage: "marketing"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "unauthorized", decodeError(t, rec)["error"])
	})

	t.Run("missing backed-out reason", func(t *testing.T) {
		client := fx.seedClient(types.StageMarketing)
		rec := fx.request(t, http.MethodPost, "/clients/"+client.ID.String()+"/transition", "Recruiter",
			types.TransitionRequest{ToStage: "backed-out"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", decodeError(t, rec)["error"])
	})

	t.Run("unknown client", func(t *testing.T) {
		rec := fx.request(t, http.MethodPost, "/clients/"+uuid.NewString()+"/transition", "Admin",
			types.TransitionRequest{ToStage: "resume"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleTransition_ConcurrentBlockConflicts(t *testing.T) {
	fx := newServerFixture(pipeline.WithPolicy(pipeline.Policy{DenyBlockedTransitions: true}))
	client := fx.seedClient(types.StageSales)

	// Another writer blocks the client after the handler loads its
	// snapshot; the commit must fail instead of advancing a blocked
	// client past the policy gate.
	fx.store.blockAfterGet = true
	rec := fx.request(t, http.MethodPost, "/clients/"+client.ID.String()+"/transition", "Sales_Executive",
		types.TransitionRequest{ToStage: "resume"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "stale_snapshot", decodeError(t, rec)["error"])

	stored := fx.store.clients[client.ID]
	assert.Equal(t, types.StageSales, stored.Status)
	assert.True(t, stored.Blocked)
}

func TestHandleBlock(t *testing.T) {
	fx := newServerFixture()

	client := fx.seedClient(types.StageMarketing)
	rec := fx.request(t, http.MethodPost, "/clients/"+client.ID.String()+"/block", "Senior_Recruiter", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, fx.store.clients[client.ID].Blocked)

	// Out of scope for the role.
	client = fx.seedClient(types.StageSales)
	rec = fx.request(t, http.MethodPost, "/clients/"+client.ID.String()+"/block", "Senior_Recruiter", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "authorization_error", decodeError(t, rec)["error"])
}

func TestHandleCompleteAction(t *testing.T) {
	fx := newServerFixture()
	client := fx.seedClient(types.StageSales)
	path := "/clients/" + client.ID.String() + "/actions"

	rec := fx.request(t, http.MethodPost, path, "Sales_Executive",
		types.CompleteActionRequest{ActionName: "UploadAgreement"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_evidence", decodeError(t, rec)["error"])

	rec = fx.request(t, http.MethodPost, path, "Sales_Executive",
		types.CompleteActionRequest{ActionName: "UploadAgreement", EvidenceRef: "file123"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var record types.ActionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "file123", record.EvidenceRef)
	assert.Len(t, fx.store.records[client.ID], 1)

	rec = fx.request(t, http.MethodGet, path, "Sales_Executive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []types.ActionRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)
}

func TestHandleAssignRecruiter(t *testing.T) {
	fx := newServerFixture()
	client := fx.seedClient(types.StageMarketing)
	path := "/clients/" + client.ID.String() + "/assign-recruiter"

	rec := fx.request(t, http.MethodPost, path, "Recruiter",
		types.AssignRecruiterRequest{RecruiterID: uuid.NewString()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, fx.store.clients[client.ID].AssignedRecruiterID)

	rec = fx.request(t, http.MethodPost, path, "Resume_Writer",
		types.AssignRecruiterRequest{RecruiterID: uuid.NewString()})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleSummary(t *testing.T) {
	fx := newServerFixture()
	fx.seedClient(types.StageSales)
	fx.seedClient(types.StageCompleted)

	rec := fx.request(t, http.MethodGet, "/pipeline/summary", "Marketing_Manager", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary types.PipelineSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Total)
	assert.InDelta(t, 0.5, summary.ConversionRate, 1e-9)
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	fx := newServerFixture()
	client := fx.seedClient(types.StageSales)

	rec := fx.request(t, http.MethodPost, "/clients/"+client.ID.String()+"/transition", "Janitor",
		types.TransitionRequest{ToStage: "resume"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
