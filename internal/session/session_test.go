package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	require.NoError(t, st.Set(ctx, KeyAccessToken, "A"))
	require.NoError(t, st.Set(ctx, KeyUser, `{"user_id":"u1","email":"ada@example.com","name":"Ada"}`))
	require.NoError(t, st.Set(ctx, KeyOrganizations, `[{"organization_id":"org1","organization_name":"Acme"},{"organization_id":"org2","organization_name":"Beta"}]`))
	require.NoError(t, st.Set(ctx, KeyCurrentOrganization, "org2"))
	require.NoError(t, st.Set(ctx, KeyCurrentRole, "ORG_ADMIN"))
	require.NoError(t, st.Set(ctx, KeyExternalToken, "google-tok"))

	s, err := Load(ctx, st)
	require.NoError(t, err)

	assert.Equal(t, "A", s.AccessToken)
	require.NotNil(t, s.User)
	assert.Equal(t, "u1", s.UserID())
	assert.Len(t, s.Organizations, 2)
	assert.Equal(t, "Beta", s.ActiveOrganization().Name)
	assert.Equal(t, models.RoleOrgAdmin, s.ActiveRole)
	assert.Equal(t, "google-tok", s.ExternalToken)
	assert.True(t, s.IsAuthenticated())
	assert.True(t, s.HasOrganization())
	assert.True(t, s.IsAdmin())
}

func TestLoad_CorruptValuesAreAbsent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	require.NoError(t, st.Set(ctx, KeyUser, "{not json"))
	require.NoError(t, st.Set(ctx, KeyOrganizations, "[oops"))

	s, err := Load(ctx, st)
	require.NoError(t, err)

	assert.Nil(t, s.User)
	assert.Empty(t, s.Organizations)
	assert.False(t, s.IsAuthenticated())
}

func TestSession_Derived(t *testing.T) {
	tests := []struct {
		name      string
		session   *Session
		wantAuth  bool
		wantOrg   bool
		wantAdmin bool
	}{
		{"nil", nil, false, false, false},
		{"empty", &Session{}, false, false, false},
		{"orgless user", &Session{User: &models.User{ID: "u1"}}, true, false, false},
		{"member", &Session{User: &models.User{ID: "u1"}, ActiveOrganizationID: "org1", ActiveRole: models.RoleOrgMember}, true, true, false},
		{"org admin", &Session{User: &models.User{ID: "u1"}, ActiveOrganizationID: "org1", ActiveRole: models.RoleOrgAdmin}, true, true, true},
		{"super admin", &Session{User: &models.User{ID: "u1"}, ActiveOrganizationID: "org1", ActiveRole: models.RoleSuperAdmin}, true, true, true},
		{"manager", &Session{User: &models.User{ID: "u1"}, ActiveOrganizationID: "org1", ActiveRole: models.RoleOrgManager}, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAuth, tt.session.IsAuthenticated())
			assert.Equal(t, tt.wantOrg, tt.session.HasOrganization())
			assert.Equal(t, tt.wantAdmin, tt.session.IsAdmin())
		})
	}
}

func TestMemoryStore_ClearRemovesManifestOnly(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	for _, key := range Manifest {
		require.NoError(t, st.Set(ctx, key, "x"))
	}
	require.NoError(t, st.Set(ctx, Key("unrelated"), "keep"))

	require.NoError(t, st.Clear(ctx))

	for _, key := range Manifest {
		_, ok, _ := st.Get(ctx, key)
		assert.False(t, ok, "key %s should be cleared", key)
	}
	v, ok, _ := st.Get(ctx, Key("unrelated"))
	assert.True(t, ok)
	assert.Equal(t, "keep", v)
}

// replay copies the cookies set on rec onto a new request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}
