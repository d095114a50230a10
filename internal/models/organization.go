// Package models defines the data models exchanged with the Testaurant backend.
package models

// Role represents a user's role within an organization.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleOrgAdmin   Role = "ORG_ADMIN"
	RoleOrgManager Role = "ORG_MANAGER"
	RoleOrgMember  Role = "ORG_MEMBER"
)

// IsAdmin reports whether the role grants administrative controls.
func (r Role) IsAdmin() bool {
	return r == RoleOrgAdmin || r == RoleSuperAdmin
}

// AssignableRoles are the roles an admin may give to a member.
var AssignableRoles = []Role{RoleOrgAdmin, RoleOrgMember}

// Organization represents a tenant.
type Organization struct {
	ID          string `json:"organization_id"`
	Name        string `json:"organization_name"`
	Description string `json:"organization_description,omitempty"`
}

// Membership links a user to an organization with a role.
type Membership struct {
	OrganizationID string `json:"organization_id"`
	Role           Role   `json:"role"`
}

// JoinRole is the role code used when requesting to join an organization.
type JoinRole string

const (
	JoinRoleAdmin  JoinRole = "1"
	JoinRoleMember JoinRole = "2"
)

// ParseJoinRole maps a form value to a join role, defaulting to member.
func ParseJoinRole(s string) JoinRole {
	if JoinRole(s) == JoinRoleAdmin {
		return JoinRoleAdmin
	}
	return JoinRoleMember
}

// RequestStatus is the lifecycle state of a join request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// JoinRequest is a user's own request to join an organization.
type JoinRequest struct {
	RequestID      string        `json:"request_id,omitempty"`
	OrganizationID string        `json:"organization_id"`
	Status         RequestStatus `json:"status"`
	RequestedRole  string        `json:"requested_role,omitempty"`
}

// Team is an optional team created together with an organization.
type Team struct {
	Name         string `json:"team_name" validate:"required"`
	Description  string `json:"team_description"`
	ManagerEmail string `json:"manager_email" validate:"omitempty,email"`
}

// CreateOrganizationRequest is the payload for creating an organization.
// Teams and DatabaseCredentials are sent as null when empty.
type CreateOrganizationRequest struct {
	Name                string               `json:"organization_name"`
	Description         string               `json:"organization_description"`
	AdminEmail          string               `json:"admin_email"`
	Teams               []Team               `json:"teams"`
	DatabaseCredentials []DatabaseCredential `json:"database_credentials"`
}

// CreateOrganizationResponse is returned when an organization is created.
type CreateOrganizationResponse struct {
	OrganizationID string `json:"organization_id"`
	Message        string `json:"message,omitempty"`
}
