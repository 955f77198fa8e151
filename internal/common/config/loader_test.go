package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  environment: %s
session:
  secret: %s
cloudinary:
  api_key: key
  api_secret: secret
  cloud_name: demo
  upload_preset: loans
database:
  postgres:
    host: ${TEST_LOAN_BROKER_DB_HOST}
    database: loans
    user: broker
  redis:
    address: localhost:6379
`

func writeConfig(t *testing.T, environment, secret string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(fmt.Sprintf(baseYAML, environment, secret))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// ==========================
// LoadFromFile Tests
// ==========================

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	t.Setenv("TEST_LOAN_BROKER_DB_HOST", "db.internal")

	cfg, err := LoadFromFile(writeConfig(t, EnvDevelopment, "dev-secret"))

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "__session", cfg.Session.CookieName)
	assert.Equal(t, "applications", cfg.Search.ApplicationsIndex)
	assert.Equal(t, "https://api.cloudinary.com/v1_1", cfg.Cloudinary.BaseURL)
	assert.False(t, cfg.App.IsProduction())
	assert.False(t, cfg.Database.Elasticsearch.Enabled())
	assert.False(t, cfg.Notifications.Enabled())
}

func TestLoadFromFile_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		secret      string
		field       string
	}{
		{name: "missing secret", environment: EnvDevelopment, secret: `""`, field: "session.secret"},
		{name: "unknown environment", environment: "staging", secret: "dev-secret", field: "app.environment"},
		{name: "short production secret", environment: EnvProduction, secret: "too-short", field: "session.secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_LOAN_BROKER_DB_HOST", "db.internal")
			t.Setenv("SESSION_SECRET", "")

			_, err := LoadFromFile(writeConfig(t, tt.environment, tt.secret))

			require.Error(t, err)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

// ==========================
// Helper Tests
// ==========================

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "broker", Password: "pw", Database: "loans", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=broker password=pw dbname=loans sslmode=disable", p.GetDSN())
}

func TestElasticsearchConfig_GetURL(t *testing.T) {
	assert.Equal(t, "http://a:9200", ElasticsearchConfig{Addresses: []string{"http://a:9200"}}.GetURL())
	assert.Equal(t, "http://b:9200", ElasticsearchConfig{URL: "http://b:9200", Addresses: []string{"http://a:9200"}}.GetURL())
	assert.Empty(t, ElasticsearchConfig{}.GetURL())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
