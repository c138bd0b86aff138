package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `connection:
  host: myhost
  port: 5433
  username: myuser
  database: mydb
  sslmode: require

table: loan_data
delimiter: ";"
timeout: 90s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "myhost", cfg.Connection.Host)
	assert.Equal(t, 5433, cfg.Connection.Port)
	assert.Equal(t, "myuser", cfg.Connection.Username)
	assert.Equal(t, "mydb", cfg.Connection.Database)
	assert.Equal(t, "require", cfg.Connection.SSLMode)
	assert.Equal(t, "loan_data", cfg.Table)
	assert.Equal(t, ";", cfg.Delimiter)
	assert.Equal(t, "90s", cfg.Timeout)
}

func TestLoad_MinimalYAML(t *testing.T) {
	dir := t.TempDir()
	content := `table: loan_data
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "", cfg.Connection.Host)
	assert.Equal(t, 0, cfg.Connection.Port)
	assert.Equal(t, "loan_data", cfg.Table)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{{invalid"), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(""), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}
