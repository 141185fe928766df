package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  environment: test
  port: "9090"
  jwt_signing_key: secret
database:
  driver: sqlite
  sqlite_path: ":memory:"
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnvTest, conf.API.Environment)
	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "secret", conf.API.JWTSigningKey)
	assert.Equal(t, DriverSQLite, conf.Database.Driver)
	assert.Equal(t, "5432", conf.Postgres.Port)
	assert.Equal(t, "debug", conf.Gin.Mode)
	assert.False(t, conf.Storage.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
api:
  environment: test
  jwt_signing_key: secret
`)
	t.Setenv("API_PORT", "7000")
	t.Setenv("POSTGRES_HOST", "db.internal")

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", conf.API.Port)
	assert.Equal(t, "db.internal", conf.Postgres.Host)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing signing key",
			content: `
api:
  environment: test
`,
		},
		{
			name: "unknown environment",
			content: `
api:
  environment: staging
  jwt_signing_key: secret
`,
		},
		{
			name: "unknown driver",
			content: `
api:
  jwt_signing_key: secret
database:
  driver: mysql
`,
		},
		{
			name: "storage without endpoint",
			content: `
api:
  jwt_signing_key: secret
storage:
  enabled: true
  endpoint: ""
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	c := &PostgresConfig{Host: "h", Port: "1", User: "u", Password: "p", DB: "d", SSLMode: "disable"}

	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}
