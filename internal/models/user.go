package models

// User represents the signed-in account.
type User struct {
	ID            string       `json:"user_id"`
	Email         string       `json:"email"`
	Name          string       `json:"name"`
	GoogleID      string       `json:"google_id,omitempty"`
	Organizations []Membership `json:"organizations,omitempty"`
}

// DisplayName returns the name, falling back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// LoginRequest is the payload for exchanging an external identity token.
type LoginRequest struct {
	IDToken        string `json:"id_token"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// LoginResponse is returned by the login endpoint.
// AccessToken is empty when the user has no organization binding yet.
type LoginResponse struct {
	AccessToken   string         `json:"access_token,omitempty"`
	TokenType     string         `json:"token_type,omitempty"`
	User          User           `json:"user"`
	Organizations []Organization `json:"organizations"`
	CurrentRole   Role           `json:"current_role,omitempty"`
}
