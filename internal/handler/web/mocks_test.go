package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/entity"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/service"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
)

// MockBFF is a mock implementation of BFFAPI.
type MockBFF struct {
	mock.Mock
}

func (m *MockBFF) List(ctx context.Context, collection string) (json.RawMessage, error) {
	args := m.Called(ctx, collection)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *MockBFF) Create(ctx context.Context, collection string, payload interface{}) error {
	return m.Called(ctx, collection, payload).Error(0)
}

func (m *MockBFF) Delete(ctx context.Context, collection, id string) error {
	return m.Called(ctx, collection, id).Error(0)
}

func (m *MockBFF) Run(ctx context.Context, entityType, id string, env models.Environment) (*models.RunResult, error) {
	args := m.Called(ctx, entityType, id, env)
	result, _ := args.Get(0).(*models.RunResult)
	return result, args.Error(1)
}

func (m *MockBFF) ExecutionDetail(ctx context.Context, entityType, id string) (json.RawMessage, error) {
	args := m.Called(ctx, entityType, id)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *MockBFF) Runnable(ctx context.Context) ([]models.Runnable, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Runnable)
	return items, args.Error(1)
}

func (m *MockBFF) Stats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.Stats)
	return stats, args.Error(1)
}

// MockOrganizations is a mock implementation of OrganizationsAPI.
type MockOrganizations struct {
	mock.Mock
}

func (m *MockOrganizations) List(ctx context.Context) ([]models.Organization, error) {
	args := m.Called(ctx)
	orgs, _ := args.Get(0).([]models.Organization)
	return orgs, args.Error(1)
}

func (m *MockOrganizations) MyRequests(ctx context.Context) ([]models.JoinRequest, error) {
	args := m.Called(ctx)
	reqs, _ := args.Get(0).([]models.JoinRequest)
	return reqs, args.Error(1)
}

func (m *MockOrganizations) Create(ctx context.Context, req models.CreateOrganizationRequest) (*models.CreateOrganizationResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.CreateOrganizationResponse)
	return resp, args.Error(1)
}

func (m *MockOrganizations) Join(ctx context.Context, orgID string, role models.JoinRole) error {
	return m.Called(ctx, orgID, role).Error(0)
}

func (m *MockOrganizations) Members(ctx context.Context, orgID string) (json.RawMessage, error) {
	args := m.Called(ctx, orgID)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *MockOrganizations) RemoveMember(ctx context.Context, orgID, userID string) error {
	return m.Called(ctx, orgID, userID).Error(0)
}

func (m *MockOrganizations) UpdateMemberRole(ctx context.Context, orgID, userID string, role models.Role) error {
	return m.Called(ctx, orgID, userID, role).Error(0)
}

func (m *MockOrganizations) JoinRequests(ctx context.Context, orgID string, status models.RequestStatus) (json.RawMessage, error) {
	args := m.Called(ctx, orgID, status)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *MockOrganizations) HandleJoinRequest(ctx context.Context, orgID, requestID string, approve bool) error {
	return m.Called(ctx, orgID, requestID, approve).Error(0)
}

// MockResources is a mock implementation of ResourcesAPI.
type MockResources struct {
	mock.Mock
}

func (m *MockResources) Credentials(ctx context.Context, orgID string) ([]models.DatabaseCredential, error) {
	args := m.Called(ctx, orgID)
	creds, _ := args.Get(0).([]models.DatabaseCredential)
	return creds, args.Error(1)
}

func (m *MockResources) SaveCredentials(ctx context.Context, orgID string, creds []models.DatabaseCredential) error {
	return m.Called(ctx, orgID, creds).Error(0)
}

func (m *MockResources) DeleteCredential(ctx context.Context, orgID, host string, port int, databaseName string) error {
	return m.Called(ctx, orgID, host, port, databaseName).Error(0)
}

func (m *MockResources) EnvVars(ctx context.Context, orgID string) ([]models.EnvVar, error) {
	args := m.Called(ctx, orgID)
	vars, _ := args.Get(0).([]models.EnvVar)
	return vars, args.Error(1)
}

func (m *MockResources) AddEnvVar(ctx context.Context, orgID string, v models.EnvVar) error {
	return m.Called(ctx, orgID, v).Error(0)
}

func (m *MockResources) DeleteEnvVar(ctx context.Context, orgID, key string) error {
	return m.Called(ctx, orgID, key).Error(0)
}

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, st session.Store, idToken, organizationID string) (service.Destination, error) {
	args := m.Called(ctx, st, idToken, organizationID)
	return args.Get(0).(service.Destination), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context, st session.Store) (service.Destination, error) {
	args := m.Called(ctx, st)
	return args.Get(0).(service.Destination), args.Error(1)
}

func (m *MockSessionService) SwitchOrganization(ctx context.Context, st session.Store, organizationID string) (service.Destination, error) {
	args := m.Called(ctx, st, organizationID)
	return args.Get(0).(service.Destination), args.Error(1)
}

func (m *MockSessionService) LeaveOrganization(ctx context.Context, st session.Store, organizationID string) (service.Destination, error) {
	args := m.Called(ctx, st, organizationID)
	return args.Get(0).(service.Destination), args.Error(1)
}

func (m *MockSessionService) DeleteOrganization(ctx context.Context, st session.Store, organizationID string) (service.Destination, error) {
	args := m.Called(ctx, st, organizationID)
	return args.Get(0).(service.Destination), args.Error(1)
}

// fixedBackend hands every request the same store.
type fixedBackend struct {
	st session.Store
}

func (b fixedBackend) Open(http.ResponseWriter, *http.Request) (session.Store, error) {
	return b.st, nil
}

type testEnv struct {
	bff      *MockBFF
	orgs     *MockOrganizations
	res      *MockResources
	sessions *MockSessionService
	store    *session.MemoryStore
	handler  *WebHandler
	router   chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cookies := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	e := &testEnv{
		bff:      new(MockBFF),
		orgs:     new(MockOrganizations),
		res:      new(MockResources),
		sessions: new(MockSessionService),
		store:    session.NewMemoryStore(),
	}
	e.handler = &WebHandler{
		bff:           e.bff,
		organizations: e.orgs,
		resources:     e.res,
		sessions:      e.sessions,
		backend:       fixedBackend{st: e.store},
		flashes:       session.NewFlashes(cookies),
		cookies:       cookies,
		runs:          entity.NewRunGuard(),
		config:        Config{GoogleClientID: "client-123", BaseURL: "http://localhost:8080"},
		logger:        zerolog.Nop(),
	}
	e.router = e.handler.Routes()
	return e
}

// signIn stores a session for Ada in Acme with the given role.
func (e *testEnv) signIn(t *testing.T, role models.Role) {
	t.Helper()
	e.signInWithoutOrganization(t)
	ctx := context.Background()
	require.NoError(t, e.store.Set(ctx, session.KeyAccessToken, "A"))
	require.NoError(t, e.store.Set(ctx, session.KeyOrganizations, `[{"organization_id":"org1","organization_name":"Acme"}]`))
	require.NoError(t, e.store.Set(ctx, session.KeyCurrentOrganization, "org1"))
	require.NoError(t, e.store.Set(ctx, session.KeyCurrentRole, string(role)))
}

func (e *testEnv) signInWithoutOrganization(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.store.Set(ctx, session.KeyUser, `{"user_id":"u1","email":"ada@example.com","name":"Ada"}`))
	require.NoError(t, e.store.Set(ctx, session.KeyExternalToken, "google-token"))
}

func (e *testEnv) get(path string, htmx bool) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, path, nil, htmx)
}

func (e *testEnv) post(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, path, form, htmx)
}

func (e *testEnv) do(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := newFormRequest(method, path, form)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return e.serve(req)
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := newRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// newFormRequest builds a request with an urlencoded body when form is set.
func newFormRequest(method, path string, form url.Values) *http.Request {
	if form == nil {
		return httptest.NewRequest(method, path, nil)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// toasts decodes the HX-Trigger toast events of a response.
func toasts(t *testing.T, rec *httptest.ResponseRecorder) []toastEvent {
	t.Helper()
	header := rec.Header().Get("HX-Trigger")
	require.NotEmpty(t, header, "expected HX-Trigger header")

	var payload struct {
		Toast json.RawMessage `json:"toast"`
	}
	require.NoError(t, json.Unmarshal([]byte(header), &payload))

	var many []toastEvent
	if err := json.Unmarshal(payload.Toast, &many); err == nil {
		return many
	}
	var one toastEvent
	require.NoError(t, json.Unmarshal(payload.Toast, &one))
	return []toastEvent{one}
}
