package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mandeep003/nestle-truck-monitor/auth"
	"github.com/Mandeep003/nestle-truck-monitor/config"
	"github.com/Mandeep003/nestle-truck-monitor/engine"
	"github.com/Mandeep003/nestle-truck-monitor/handlers"
	"github.com/Mandeep003/nestle-truck-monitor/middleware"
	"github.com/Mandeep003/nestle-truck-monitor/models"
	"github.com/Mandeep003/nestle-truck-monitor/store"
)

// testServer wires the full live stack: session handler, role middleware,
// board handler, workflow engine, memory store.
type testServer struct {
	mux        *http.ServeMux
	jwtManager *auth.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	resolver := auth.NewRoleResolver(config.RoleConfig{
		GatePassword:    "gate123",
		SCMPassword:     "scm2025",
		ParkingPassword: "parking123",
		MasterPassword:  "master123",
	})
	workflowEngine := engine.New(store.NewMemoryStore())

	sessionHandler := handlers.NewSessionHandler(resolver, jwtManager)
	boardHandler := handlers.NewBoardHandler(workflowEngine)
	exportHandler := handlers.NewExportHandler(workflowEngine)

	withRole := middleware.RoleMiddleware(jwtManager)
	masterOnly := middleware.RequireRole(models.RoleMasterUser)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", sessionHandler.Login)
	mux.HandleFunc("/api/refresh", sessionHandler.RefreshToken)
	mux.Handle("/api/trucks", withRole(http.HandlerFunc(boardHandler.Trucks)))
	mux.Handle("/api/trucks/transition", withRole(http.HandlerFunc(boardHandler.Transition)))
	mux.Handle("/api/trucks/delete", withRole(http.HandlerFunc(boardHandler.Delete)))
	mux.Handle("/api/trucks/purge-left", withRole(http.HandlerFunc(boardHandler.PurgeLeft)))
	mux.Handle("/api/trucks/export", withRole(masterOnly(http.HandlerFunc(exportHandler.Export))))

	return &testServer{mux: mux, jwtManager: jwtManager}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, password string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/login", "", map[string]string{"password": password})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func validPayload() models.EntryFields {
	return models.EntryFields{
		Date:           "2025-08-30",
		TruckNumber:    "TN01AB1234",
		DriverPhone:    "+91-98100-11223",
		EntryTime:      "08:15",
		VendorMaterial: "Coffee / Green beans",
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/login", "", map[string]string{"password": "gate123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.LoginResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, models.RoleGate, resp.Role)
	assert.NotEmpty(t, resp.RefreshToken)

	rec = srv.do(t, http.MethodPost, "/api/login", "", map[string]string{"password": "letmein"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/login", "", map[string]string{"password": "scm2025"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login handlers.LoginResponse
	decodeJSON(t, rec, &login)

	rec = srv.do(t, http.MethodPost, "/api/refresh", "", map[string]string{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed handlers.RefreshTokenResponse
	decodeJSON(t, rec, &refreshed)
	claims, err := srv.jwtManager.ValidateToken(refreshed.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSCM, claims.Role)
}

// The board is world-readable: no token lists as Viewer.
func TestListWithoutToken(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	gate := srv.login(t, "gate123")
	rec := srv.do(t, http.MethodPost, "/api/trucks", gate, validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/trucks", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count int `json:"count"`
	}
	decodeJSON(t, rec, &resp)
	assert.Equal(t, 1, resp.Count)
}

// Anonymous and garbage tokens act as Viewer and cannot mutate.
func TestMutationsRejectedWithoutRole(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	for _, token := range []string{"", "not-a-jwt"} {
		rec := srv.do(t, http.MethodPost, "/api/trucks", token, validPayload())
		assert.Equal(t, http.StatusForbidden, rec.Code, "token %q", token)

		rec = srv.do(t, http.MethodPost, "/api/trucks/purge-left", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, "token %q", token)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	gate := srv.login(t, "gate123")

	payload := validPayload()
	payload.DriverPhone = ""
	rec := srv.do(t, http.MethodPost, "/api/trucks", gate, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionBadStatus(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	scm := srv.login(t, "scm2025")

	rec := srv.do(t, http.MethodPost, "/api/trucks/transition", scm, handlers.TransitionRequest{
		RecordID: "some-id",
		Status:   "Vanished",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	scm := srv.login(t, "scm2025")

	rec := srv.do(t, http.MethodPost, "/api/trucks/transition", scm, handlers.TransitionRequest{
		RecordID: "no-such-id",
		Status:   string(models.StatusReadyToLeave),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Full lifecycle over HTTP: gate registers, SCM releases, parking departs,
// master purges.
func TestBoardLifecycle(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	gate := srv.login(t, "gate123")
	scm := srv.login(t, "scm2025")
	parking := srv.login(t, "parking123")
	master := srv.login(t, "master123")

	rec := srv.do(t, http.MethodPost, "/api/trucks", gate, validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		RecordID string `json:"record_id"`
	}
	decodeJSON(t, rec, &created)
	require.NotEmpty(t, created.RecordID)

	// Parking may not depart a truck still Inside.
	rec = srv.do(t, http.MethodPost, "/api/trucks/transition", parking, handlers.TransitionRequest{
		RecordID: created.RecordID,
		Status:   string(models.StatusLeft),
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/trucks/transition", scm, handlers.TransitionRequest{
		RecordID: created.RecordID,
		Status:   string(models.StatusReadyToLeave),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/trucks/transition", parking, handlers.TransitionRequest{
		RecordID: created.RecordID,
		Status:   string(models.StatusLeft),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// SCM may not touch what Parking stamped.
	rec = srv.do(t, http.MethodPost, "/api/trucks/transition", scm, handlers.TransitionRequest{
		RecordID: created.RecordID,
		Status:   string(models.StatusInside),
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/trucks/purge-left", master, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var purged struct {
		Deleted int `json:"deleted"`
	}
	decodeJSON(t, rec, &purged)
	assert.Equal(t, 1, purged.Deleted)

	rec = srv.do(t, http.MethodGet, "/api/trucks", master, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var board struct {
		Count int `json:"count"`
	}
	decodeJSON(t, rec, &board)
	assert.Equal(t, 0, board.Count)
}

func TestDeleteMasterOnly(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	gate := srv.login(t, "gate123")
	master := srv.login(t, "master123")

	rec := srv.do(t, http.MethodPost, "/api/trucks", gate, validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		RecordID string `json:"record_id"`
	}
	decodeJSON(t, rec, &created)

	rec = srv.do(t, http.MethodPost, "/api/trucks/delete", gate, handlers.DeleteRequest{RecordID: created.RecordID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/trucks/delete", master, handlers.DeleteRequest{RecordID: created.RecordID})
	require.Equal(t, http.StatusOK, rec.Code)

	// Idempotent: deleting again still succeeds.
	rec = srv.do(t, http.MethodPost, "/api/trucks/delete", master, handlers.DeleteRequest{RecordID: created.RecordID})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportMasterOnly(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	gate := srv.login(t, "gate123")
	master := srv.login(t, "master123")

	rec := srv.do(t, http.MethodPost, "/api/trucks", gate, validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/trucks/export", gate, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/trucks/export", master, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "TN01AB1234")

	rec = srv.do(t, http.MethodGet, "/api/trucks/export?format=xlsx", master, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotZero(t, rec.Body.Len())
}
