package models

import "strconv"

// DatabaseType identifies the engine behind a credential.
type DatabaseType string

const (
	DatabaseMySQL      DatabaseType = "MYSQL"
	DatabasePostgreSQL DatabaseType = "POSTGRESQL"
	DatabaseMongoDB    DatabaseType = "MONGODB"
)

// DatabaseTypes lists the supported engines in display order.
var DatabaseTypes = []DatabaseType{DatabaseMySQL, DatabasePostgreSQL, DatabaseMongoDB}

// DefaultPort returns the conventional port for the engine.
func (t DatabaseType) DefaultPort() int {
	switch t {
	case DatabasePostgreSQL:
		return 5432
	case DatabaseMongoDB:
		return 27017
	default:
		return 3306
	}
}

// DatabaseCredential is an organization-scoped database connection.
// The read API never returns Password.
type DatabaseCredential struct {
	DatabaseType DatabaseType `json:"database_type" validate:"required,oneof=MYSQL POSTGRESQL MONGODB"`
	Host         string       `json:"host" validate:"required"`
	Port         int          `json:"port" validate:"gte=0,lte=65535"`
	Username     string       `json:"username" validate:"required"`
	Password     string       `json:"password,omitempty"`
	DatabaseName string       `json:"database_name" validate:"required"`
}

// PortString returns the port as text.
func (c DatabaseCredential) PortString() string {
	return strconv.Itoa(c.Port)
}

// EnvVar is an organization-scoped environment variable.
type EnvVar struct {
	Key         string `json:"key" validate:"required"`
	Value       string `json:"value" validate:"required"`
	Description string `json:"description,omitempty"`
}
