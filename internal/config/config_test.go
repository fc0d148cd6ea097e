package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NAMESPACE", "support-bot")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DEFAULT_LOCALE", "")
	t.Setenv("MIGRATIONS_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "support-bot", cfg.Namespace)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, "postgres://localhost:5432/labelbot?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("NAMESPACE", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("NAMESPACE", "bot")
	t.Setenv("DEFAULT_LOCALE", "not a locale !!")
	_, err = Load()
	assert.Error(t, err)
}
