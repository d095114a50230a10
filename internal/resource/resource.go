// Package resource covers the organization's shared database connections
// and environment variables.
package resource

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Local validation failures.
var (
	ErrPasswordRequired = errors.New("Please enter the password")
	ErrCredentialFields = errors.New("Host, username, and database name are required")
	ErrEnvVarFields     = errors.New("Key and value are required")
	ErrBadKey           = errors.New("invalid credential key")
)

// CredentialKey identifies a credential. Two credentials with the same key
// are the same logical connection.
type CredentialKey struct {
	Host         string
	Port         int
	DatabaseName string
}

// KeyOf returns the identity of c.
func KeyOf(c models.DatabaseCredential) CredentialKey {
	return CredentialKey{Host: c.Host, Port: c.Port, DatabaseName: c.DatabaseName}
}

// String encodes the key as host|port|database_name. Host and database name
// are query-escaped, so neither can contain a bare "|".
func (k CredentialKey) String() string {
	return url.QueryEscape(k.Host) + "|" + strconv.Itoa(k.Port) + "|" + url.QueryEscape(k.DatabaseName)
}

// Query returns the key as delete query parameters.
func (k CredentialKey) Query() url.Values {
	return url.Values{
		"host":          {k.Host},
		"port":          {strconv.Itoa(k.Port)},
		"database_name": {k.DatabaseName},
	}
}

// ParseKey decodes a key produced by String.
func ParseKey(s string) (CredentialKey, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return CredentialKey{}, ErrBadKey
	}
	host, err := url.QueryUnescape(parts[0])
	if err != nil || host == "" {
		return CredentialKey{}, ErrBadKey
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return CredentialKey{}, ErrBadKey
	}
	name, err := url.QueryUnescape(parts[2])
	if err != nil {
		return CredentialKey{}, ErrBadKey
	}
	return CredentialKey{Host: host, Port: port, DatabaseName: name}, nil
}

// Find returns the credential with key k.
func Find(creds []models.DatabaseCredential, k CredentialKey) (models.DatabaseCredential, bool) {
	for _, c := range creds {
		if KeyOf(c) == k {
			return c, true
		}
	}
	return models.DatabaseCredential{}, false
}

// NewCredential is the blank add form.
func NewCredential() models.DatabaseCredential {
	return models.DatabaseCredential{
		DatabaseType: models.DatabaseMySQL,
		Port:         models.DatabaseMySQL.DefaultPort(),
	}
}

// EditForm pre-fills the form from an existing credential. The password is
// never shown and must be entered again.
func EditForm(c models.DatabaseCredential) models.DatabaseCredential {
	c.Password = ""
	return c
}

// CredentialFromForm reads credential fields. A missing or invalid port
// falls back to the engine default.
func CredentialFromForm(form url.Values) models.DatabaseCredential {
	dbType := models.DatabaseType(form.Get("database_type"))
	if !validType(dbType) {
		dbType = models.DatabaseMySQL
	}
	port, err := strconv.Atoi(strings.TrimSpace(form.Get("port")))
	if err != nil || port <= 0 || port > 65535 {
		port = dbType.DefaultPort()
	}
	return models.DatabaseCredential{
		DatabaseType: dbType,
		Host:         strings.TrimSpace(form.Get("host")),
		Port:         port,
		Username:     strings.TrimSpace(form.Get("username")),
		Password:     form.Get("password"),
		DatabaseName: strings.TrimSpace(form.Get("database_name")),
	}
}

func validType(t models.DatabaseType) bool {
	for _, v := range models.DatabaseTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidateCredential checks the fields every credential needs.
func ValidateCredential(c models.DatabaseCredential) error {
	if c.Host == "" || c.Username == "" || c.DatabaseName == "" {
		return ErrCredentialFields
	}
	if err := validate.Struct(c); err != nil {
		return ErrCredentialFields
	}
	return nil
}

// ValidateForSave checks a connection before it is saved. The gateway
// requires a password on every save.
func ValidateForSave(c models.DatabaseCredential) error {
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return ValidateCredential(c)
}

// EnvVarFromForm reads the add-variable form.
func EnvVarFromForm(form url.Values) models.EnvVar {
	return models.EnvVar{
		Key:         strings.TrimSpace(form.Get("key")),
		Value:       form.Get("value"),
		Description: form.Get("description"),
	}
}

// ValidateEnvVar requires a key and a value.
func ValidateEnvVar(v models.EnvVar) error {
	if err := validate.Struct(v); err != nil {
		return ErrEnvVarFields
	}
	return nil
}
