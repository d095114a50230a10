package web

import (
	"context"
	"encoding/json"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// BFFAPI is the backend-for-frontend surface used by the list, create and
// run pages.
type BFFAPI interface {
	List(ctx context.Context, collection string) (json.RawMessage, error)
	Create(ctx context.Context, collection string, payload interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Run(ctx context.Context, entityType, id string, env models.Environment) (*models.RunResult, error)
	ExecutionDetail(ctx context.Context, entityType, id string) (json.RawMessage, error)
	Runnable(ctx context.Context) ([]models.Runnable, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// OrganizationsAPI covers membership, join requests and organization creation.
type OrganizationsAPI interface {
	List(ctx context.Context) ([]models.Organization, error)
	MyRequests(ctx context.Context) ([]models.JoinRequest, error)
	Create(ctx context.Context, req models.CreateOrganizationRequest) (*models.CreateOrganizationResponse, error)
	Join(ctx context.Context, orgID string, role models.JoinRole) error
	Members(ctx context.Context, orgID string) (json.RawMessage, error)
	RemoveMember(ctx context.Context, orgID, userID string) error
	UpdateMemberRole(ctx context.Context, orgID, userID string, role models.Role) error
	JoinRequests(ctx context.Context, orgID string, status models.RequestStatus) (json.RawMessage, error)
	HandleJoinRequest(ctx context.Context, orgID, requestID string, approve bool) error
}

// ResourcesAPI manages organization database credentials and variables.
type ResourcesAPI interface {
	Credentials(ctx context.Context, orgID string) ([]models.DatabaseCredential, error)
	SaveCredentials(ctx context.Context, orgID string, creds []models.DatabaseCredential) error
	DeleteCredential(ctx context.Context, orgID, host string, port int, databaseName string) error
	EnvVars(ctx context.Context, orgID string) ([]models.EnvVar, error)
	AddEnvVar(ctx context.Context, orgID string, v models.EnvVar) error
	DeleteEnvVar(ctx context.Context, orgID, key string) error
}
