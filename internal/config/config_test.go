package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corebank.yaml")

	cfg := Default("data")
	cfg.Auth.Secret = "s3cret"
	cfg.Auth.AdminPassword = "hunter2"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", loaded.Server.Listen)
	assert.Equal(t, "data", loaded.Data.Dir)
	assert.Equal(t, "s3cret", loaded.Auth.Secret)
	assert.Equal(t, 60, loaded.Auth.TokenTTLMinutes)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
