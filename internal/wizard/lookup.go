package wizard

import (
	"encoding/json"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// Lookup is what the workitem form offers for picking: connections and
// variable names. It is fetched when the form opens and then travels with
// each post in a hidden field.
type Lookup struct {
	Connections []models.DatabaseCredential `json:"connections"`
	EnvVars     []models.EnvVar             `json:"env_vars"`
}

// NewLookup keeps the fields the form displays. Usernames, passwords and
// variable values never reach the page.
func NewLookup(creds []models.DatabaseCredential, vars []models.EnvVar) Lookup {
	l := Lookup{
		Connections: make([]models.DatabaseCredential, 0, len(creds)),
		EnvVars:     make([]models.EnvVar, 0, len(vars)),
	}
	for _, c := range creds {
		l.Connections = append(l.Connections, models.DatabaseCredential{
			DatabaseType: c.DatabaseType,
			Host:         c.Host,
			Port:         c.Port,
			DatabaseName: c.DatabaseName,
		})
	}
	for _, v := range vars {
		l.EnvVars = append(l.EnvVars, models.EnvVar{Key: v.Key, Description: v.Description})
	}
	return l
}

// Encode returns the hidden field value.
func (l Lookup) Encode() string {
	b, _ := json.Marshal(l)
	return string(b)
}

// DecodeLookup parses a hidden field value. It reports false for an empty
// or malformed field, in which case the lists are fetched again.
func DecodeLookup(s string) (Lookup, bool) {
	if s == "" {
		return Lookup{}, false
	}
	var l Lookup
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return Lookup{}, false
	}
	return l, true
}
