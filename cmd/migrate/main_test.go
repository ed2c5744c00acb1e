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
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateAndList(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "--path", dir, "--log-level", "error", "create", "add listing views")
	require.NoError(t, err)
	_, err = run(t, "--path", dir, "--log-level", "error", "create", "add reminders")
	require.NoError(t, err)

	out, err := run(t, "--path", dir, "--log-level", "error", "list")
	require.NoError(t, err)
	assert.Equal(t, "000001_add_listing_views\n000002_add_reminders\n", out)

	_, err = os.Stat(filepath.Join(dir, "000002_add_reminders.down.sql"))
	assert.NoError(t, err)
}

func TestArgumentValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "--path", dir, "create")
	assert.Error(t, err)

	_, err = run(t, "--path", dir, "down", "zero")
	assert.ErrorContains(t, err, "invalid step count")

	_, err = run(t, "--path", dir, "force", "x")
	assert.ErrorContains(t, err, "invalid version")
}
