package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("BANK_DATA_DIR", dir)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PORT", "")
	t.Setenv("BACKUP_S3_BUCKET", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestMigrate(t *testing.T) {
	dir := setEnv(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "migrated ledger\nmigrated client_data\n", out)

	for _, name := range []string{"bank.db", "client_data.db"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	_, err = run(t, "migrate")
	assert.NoError(t, err, "migrate must be repeatable")
}

func TestAccountTypes(t *testing.T) {
	setEnv(t)

	out, err := run(t, "account-types")
	require.NoError(t, err)

	assert.Contains(t, out, "FUNDS PURCHASES")
	assert.Regexp(t, `(?m)^1\s+checking\s+0\s+0\.00\s+true$`, out)
	assert.Regexp(t, `(?m)^2\s+savings\s+0\.015\s+100\.00\s+false$`, out)
}

func TestBackup_NotConfigured(t *testing.T) {
	setEnv(t)

	_, err := run(t, "backup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKUP_S3_BUCKET")
}

func TestUnknownArgs(t *testing.T) {
	setEnv(t)

	_, err := run(t, "migrate", "extra")
	assert.Error(t, err)
}
