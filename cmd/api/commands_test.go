package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "registrar.db"))
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDBCheck(t *testing.T) {
	out, err := runCLI(t, "dbcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "Database connection OK (sqlite)")
}

func TestAddUser(t *testing.T) {
	out, err := runCLI(t, "adduser", "--username", "admin", "--email", "admin@example.com", "--password", "long enough")
	require.NoError(t, err)
	assert.Contains(t, out, "User admin created")
}

func TestAddUser_ShortPassword(t *testing.T) {
	_, err := runCLI(t, "adduser", "--username", "admin", "--email", "admin@example.com", "--password", "short")
	assert.Error(t, err)
}
