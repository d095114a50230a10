package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

func TestNewLookup_DropsSecrets(t *testing.T) {
	l := NewLookup(
		[]models.DatabaseCredential{{DatabaseType: models.DatabaseMongoDB, Host: "mongo", Port: 27017, Username: "root", Password: "pw", DatabaseName: "orders"}},
		[]models.EnvVar{{Key: "TOKEN", Value: "secret", Description: "API token"}},
	)

	assert.Equal(t, []models.DatabaseCredential{{DatabaseType: models.DatabaseMongoDB, Host: "mongo", Port: 27017, DatabaseName: "orders"}}, l.Connections)
	assert.Equal(t, []models.EnvVar{{Key: "TOKEN", Description: "API token"}}, l.EnvVars)
}

func TestDecodeLookup(t *testing.T) {
	l := NewLookup(nil, []models.EnvVar{{Key: "USER"}})

	got, ok := DecodeLookup(l.Encode())
	require.True(t, ok)
	assert.Equal(t, l, got)

	_, ok = DecodeLookup("")
	assert.False(t, ok)
	_, ok = DecodeLookup("{not json")
	assert.False(t, ok)
}
