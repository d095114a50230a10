package wizard

import (
	"strings"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// JoinState is how an organization appears to a user looking to join it.
type JoinState int

const (
	JoinAvailable JoinState = iota
	JoinRequested
	JoinDenied
)

// JoinOption is one organization row on the join view.
type JoinOption struct {
	ID          string
	Name        string
	Description string
	State       JoinState
}

// CanRequest reports whether a join request may be sent. Denied requests may
// be repeated.
func (o JoinOption) CanRequest() bool {
	return o.State != JoinRequested
}

// Requested reports whether a request is pending.
func (o JoinOption) Requested() bool { return o.State == JoinRequested }

// Denied reports whether the last request was rejected.
func (o JoinOption) Denied() bool { return o.State == JoinDenied }

// JoinOptions matches organizations against the user's own requests and the
// search term. A pending request takes precedence over a rejected one.
func JoinOptions(orgs []models.Organization, requests []models.JoinRequest, search string) []JoinOption {
	pending := make(map[string]bool)
	rejected := make(map[string]bool)
	for _, r := range requests {
		switch r.Status {
		case models.RequestPending:
			pending[r.OrganizationID] = true
		case models.RequestRejected:
			rejected[r.OrganizationID] = true
		}
	}

	needle := strings.ToLower(search)
	out := make([]JoinOption, 0, len(orgs))
	for _, org := range orgs {
		if needle != "" &&
			!strings.Contains(strings.ToLower(org.Name), needle) &&
			!strings.Contains(strings.ToLower(org.ID), needle) {
			continue
		}
		opt := JoinOption{
			ID:          org.ID,
			Name:        org.Name,
			Description: org.Description,
		}
		if opt.Description == "" {
			opt.Description = "No description provided"
		}
		switch {
		case pending[org.ID]:
			opt.State = JoinRequested
		case rejected[org.ID]:
			opt.State = JoinDenied
		}
		out = append(out, opt)
	}
	return out
}
