package wizard

import (
	"encoding/json"
	"net/url"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/resource"
)

// Organization setup steps.
const (
	StepOrganization = 1
	StepTeams        = 2
	StepDatabases    = 3
	StepReview       = 4
)

// StepLabels are the progress labels indexed by step - 1.
var StepLabels = []string{"Organization", "Teams", "Databases", "Review"}

// DraftField is the hidden form field carrying the encoded OrgSetup.
const DraftField = "draft"

// OrgSetup is the organization creation wizard state.
type OrgSetup struct {
	Step        int                         `json:"step"`
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Teams       []models.Team               `json:"teams"`
	Databases   []models.DatabaseCredential `json:"databases"`
}

// NewOrgSetup starts the wizard at the first step.
func NewOrgSetup() OrgSetup {
	return OrgSetup{Step: StepOrganization}
}

// DecodeOrgSetup restores the wizard from its hidden field. Garbage restarts
// the wizard.
func DecodeOrgSetup(encoded string) OrgSetup {
	s := NewOrgSetup()
	if encoded == "" {
		return s
	}
	if err := json.Unmarshal([]byte(encoded), &s); err != nil {
		return NewOrgSetup()
	}
	s.Step = clampStep(s.Step)
	return s
}

// Encode serializes the wizard for the hidden field.
func (s OrgSetup) Encode() string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b)
}

func clampStep(step int) int {
	switch {
	case step < StepOrganization:
		return StepOrganization
	case step > StepReview:
		return StepReview
	}
	return step
}

// ApplyDetails copies the organization fields when the form carries them.
func (s *OrgSetup) ApplyDetails(form url.Values) {
	setIfPresent(form, "organization_name", &s.Name)
	setIfPresent(form, "organization_description", &s.Description)
}

// Next advances one step.
func (s *OrgSetup) Next() {
	s.Step = clampStep(s.Step + 1)
}

// Back returns one step.
func (s *OrgSetup) Back() {
	s.Step = clampStep(s.Step - 1)
}

// TeamFromForm reads the pending team fields.
func TeamFromForm(form url.Values) models.Team {
	return models.Team{
		Name:         trimmed(form.Get("team_name")),
		Description:  form.Get("team_description"),
		ManagerEmail: trimmed(form.Get("manager_email")),
	}
}

// AddTeam validates and appends a team.
func (s *OrgSetup) AddTeam(t models.Team) error {
	if err := validate.Struct(t); err != nil {
		return messageFor(err, map[string]string{
			"Name":         "Team name is required",
			"ManagerEmail": "Manager email is invalid",
		}, "Invalid team")
	}
	s.Teams = append(s.Teams, t)
	return nil
}

// RemoveTeam drops the team at index i. Out-of-range indexes are ignored.
func (s *OrgSetup) RemoveTeam(i int) {
	if i >= 0 && i < len(s.Teams) {
		s.Teams = append(s.Teams[:i:i], s.Teams[i+1:]...)
	}
}

// AddDatabase validates and appends a credential.
func (s *OrgSetup) AddDatabase(c models.DatabaseCredential) error {
	if err := resource.ValidateCredential(c); err != nil {
		return invalid(err.Error())
	}
	s.Databases = append(s.Databases, c)
	return nil
}

// RemoveDatabase drops the credential at index i.
func (s *OrgSetup) RemoveDatabase(i int) {
	if i >= 0 && i < len(s.Databases) {
		s.Databases = append(s.Databases[:i:i], s.Databases[i+1:]...)
	}
}

// Payload validates the wizard and builds the create request. Empty team and
// credential lists are sent as null.
func (s OrgSetup) Payload(adminEmail string) (models.CreateOrganizationRequest, error) {
	req := models.CreateOrganizationRequest{
		Name:        trimmed(s.Name),
		Description: s.Description,
		AdminEmail:  adminEmail,
	}
	if req.Name == "" {
		return req, invalid("Organization name is required")
	}
	if len(s.Teams) > 0 {
		req.Teams = append([]models.Team(nil), s.Teams...)
	}
	if len(s.Databases) > 0 {
		req.DatabaseCredentials = append([]models.DatabaseCredential(nil), s.Databases...)
	}
	return req, nil
}
