// Package session holds the signed-in user's identity and organization context
// behind a small key/value persistence port.
//
// Readers obtain a *Session via Load. Only the session controller in the
// service package writes keys.
package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// Key names one persisted session field.
type Key string

const (
	KeyAccessToken         Key = "access_token"
	KeyUser                Key = "user"
	KeyOrganizations       Key = "organizations"
	KeyCurrentOrganization Key = "current_organization"
	KeyCurrentRole         Key = "current_role"
	KeyExternalToken       Key = "google_id_token"
)

// Manifest lists every persisted key. Clear removes all of them together.
var Manifest = []Key{
	KeyAccessToken,
	KeyUser,
	KeyOrganizations,
	KeyCurrentOrganization,
	KeyCurrentRole,
	KeyExternalToken,
}

// Store is the persistence port for session fields.
type Store interface {
	// Get returns the value of key and whether it is present.
	Get(ctx context.Context, key Key) (string, bool, error)
	// Set stores value under key.
	Set(ctx context.Context, key Key, value string) error
	// Delete removes key.
	Delete(ctx context.Context, key Key) error
	// Clear removes every key in Manifest.
	Clear(ctx context.Context) error
	// Replace swaps every key in Manifest for values in one write. Keys missing
	// from values, or mapped to "", are removed. On error the previous values
	// remain.
	Replace(ctx context.Context, values map[Key]string) error
}

// Backend binds a Store to the browser making the request.
type Backend interface {
	Open(w http.ResponseWriter, r *http.Request) (Store, error)
}

// Session is the in-memory mirror of the persisted fields.
type Session struct {
	AccessToken          string
	User                 *models.User
	Organizations        []models.Organization
	ActiveOrganizationID string
	ActiveRole           models.Role
	ExternalToken        string
}

// Load reads every manifest key from st. Values that fail to decode are
// treated as absent.
func Load(ctx context.Context, st Store) (*Session, error) {
	values := make(map[Key]string, len(Manifest))
	for _, key := range Manifest {
		v, ok, err := st.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			values[key] = v
		}
	}

	s := &Session{
		AccessToken:          values[KeyAccessToken],
		ActiveOrganizationID: values[KeyCurrentOrganization],
		ActiveRole:           models.Role(values[KeyCurrentRole]),
		ExternalToken:        values[KeyExternalToken],
	}

	if raw := values[KeyUser]; raw != "" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			s.User = &u
		}
	}

	if raw := values[KeyOrganizations]; raw != "" {
		var orgs []models.Organization
		if err := json.Unmarshal([]byte(raw), &orgs); err == nil {
			s.Organizations = orgs
		}
	}

	return s, nil
}

// IsAuthenticated reports whether a user is signed in, with or without an
// active organization.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil
}

// HasOrganization reports whether an organization is active.
func (s *Session) HasOrganization() bool {
	return s.IsAuthenticated() && s.ActiveOrganizationID != ""
}

// IsAdmin reports whether the active role grants admin controls.
func (s *Session) IsAdmin() bool {
	return s != nil && s.ActiveRole.IsAdmin()
}

// ActiveOrganization returns the active organization from the cached list.
func (s *Session) ActiveOrganization() *models.Organization {
	if s == nil {
		return nil
	}
	for i := range s.Organizations {
		if s.Organizations[i].ID == s.ActiveOrganizationID {
			return &s.Organizations[i]
		}
	}
	return nil
}

// UserID returns the signed-in user's id, or "".
func (s *Session) UserID() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.User.ID
}
