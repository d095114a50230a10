package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// OrganizationsService handles organization membership operations.
type OrganizationsService struct {
	client *Client
}

func orgPath(orgID string, parts ...string) string {
	p := "/organization/" + url.PathEscape(orgID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// List returns every organization the user may request to join.
func (s *OrganizationsService) List(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := s.client.get(ctx, "/organization/list", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// MyRequests returns the join requests made by the current user.
func (s *OrganizationsService) MyRequests(ctx context.Context) ([]models.JoinRequest, error) {
	var reqs []models.JoinRequest
	if err := s.client.get(ctx, "/organization/my-requests", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Create creates an organization with its optional teams and credentials.
func (s *OrganizationsService) Create(ctx context.Context, req models.CreateOrganizationRequest) (*models.CreateOrganizationResponse, error) {
	var resp models.CreateOrganizationResponse
	if err := s.client.post(ctx, "/organization/create", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Join submits a request to join an organization with the given role code.
func (s *OrganizationsService) Join(ctx context.Context, orgID string, role models.JoinRole) error {
	q := url.Values{"role": {string(role)}}
	return s.client.post(ctx, "/organization/join/"+url.PathEscape(orgID), q, nil, nil)
}

// Leave removes the current user from an organization.
func (s *OrganizationsService) Leave(ctx context.Context, orgID string) error {
	return s.client.delete(ctx, "/organization/leave/"+url.PathEscape(orgID), nil)
}

// Delete permanently deletes an organization.
func (s *OrganizationsService) Delete(ctx context.Context, orgID string) error {
	return s.client.delete(ctx, orgPath(orgID), nil)
}

// Members returns the raw member collection of an organization.
func (s *OrganizationsService) Members(ctx context.Context, orgID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := s.client.get(ctx, orgPath(orgID, "members"), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// RemoveMember removes a user from an organization.
func (s *OrganizationsService) RemoveMember(ctx context.Context, orgID, userID string) error {
	return s.client.delete(ctx, orgPath(orgID, "members", url.PathEscape(userID)), nil)
}

// UpdateMemberRole changes a member's role.
func (s *OrganizationsService) UpdateMemberRole(ctx context.Context, orgID, userID string, role models.Role) error {
	q := url.Values{"role": {string(role)}}
	return s.client.put(ctx, orgPath(orgID, "members", url.PathEscape(userID), "role"), q, nil, nil)
}

// JoinRequests returns the raw join request collection filtered by status.
func (s *OrganizationsService) JoinRequests(ctx context.Context, orgID string, status models.RequestStatus) (json.RawMessage, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {string(status)}}
	}
	var raw json.RawMessage
	if err := s.client.get(ctx, orgPath(orgID, "join-requests"), q, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// HandleJoinRequest approves or rejects a pending join request.
func (s *OrganizationsService) HandleJoinRequest(ctx context.Context, orgID, requestID string, approve bool) error {
	q := url.Values{"approve": {strconv.FormatBool(approve)}}
	return s.client.post(ctx, orgPath(orgID, "join-requests", url.PathEscape(requestID), "handle"), q, nil, nil)
}
