package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvassor/my-club/internal/api"
	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/command"
	"github.com/lvassor/my-club/internal/config"
	"github.com/lvassor/my-club/internal/query"
	"github.com/lvassor/my-club/internal/readmodel"
	"github.com/lvassor/my-club/internal/repository/memory"
	"github.com/lvassor/my-club/internal/session"
	"github.com/lvassor/my-club/internal/worker"
	"github.com/lvassor/my-club/internal/ws"
)

type testServer struct {
	server *api.Server
	worker *worker.Worker
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewEventStore()
	readModel, err := readmodel.Open(filepath.Join(t.TempDir(), "readmodel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = readModel.Close() })

	b := bus.New(nil, nil, bus.Options{})
	command.RegisterHandlers(b, store)

	manager := ws.NewManager(nil)
	w := worker.New(store, readModel, manager, nil, worker.Options{ResetOnBoot: true})

	cfg := &config.Config{Port: 0, LogFormat: "text"}
	server := api.NewServer(cfg, b, session.NewStore(),
		query.NewPublicQueries(readModel),
		query.NewClubQueries(readModel),
		ws.NewHandler(manager, nil),
	)
	return &testServer{server: server, worker: w}
}

func (ts *testServer) request(t *testing.T, method, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: cookie})
	}
	rec := httptest.NewRecorder()
	ts.server.Echo().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T, userID string) string {
	t.Helper()
	rec := ts.request(t, http.MethodPost, "/auth/session", `{"user_id":"`+userID+`"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["session_id"]
}

func TestUnauthenticatedRequestIsRejected(t *testing.T) {
	ts := setupTestServer(t)
	rec := ts.request(t, http.MethodGet, "/clubs", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateClubAndListThroughReadModel(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.login(t, "u1")

	rec := ts.request(t, http.MethodPost, "/clubs", `{"name":"Alpha"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The read facade serves the projection, so drain the worker first.
	require.NoError(t, ts.worker.Drain(context.Background()))

	rec = ts.request(t, http.MethodGet, "/clubs", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var clubs []readmodel.ClubRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clubs))
	require.Len(t, clubs, 1)
	assert.Equal(t, "Alpha", clubs[0].Name)
	assert.Equal(t, "u1", clubs[0].OwnerID)

	rec = ts.request(t, http.MethodGet, "/clubs/my-clubs", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clubs))
	assert.Len(t, clubs, 1)
}

func TestInvalidOperationMapsToBadRequest(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.login(t, "u1")

	rec := ts.request(t, http.MethodPost, "/clubs", `{"name":"Alpha"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, ts.worker.Drain(context.Background()))

	var clubs []readmodel.ClubRow
	rec = ts.request(t, http.MethodGet, "/clubs", "", cookie)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clubs))
	clubID := clubs[0].ID

	// Transferring ownership to the current owner violates the invariant.
	rec = ts.request(t, http.MethodPost, "/clubs/"+clubID+"/owner", `{"new_owner_id":"u1"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr api.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, api.CodeBadRequest, apiErr.Code)
}

func TestUnknownAggregateMapsToNotFound(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.login(t, "u1")

	rec := ts.request(t, http.MethodPost, "/clubs/missing/owner", `{"new_owner_id":"u2"}`, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
