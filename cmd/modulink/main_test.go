package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/modulink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "modulink version "+strings.TrimSpace(modulink.Version)+"\n", out)
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "--log-level", "error", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, `"message":"Welcome, Ada!"`)
	assert.Contains(t, out, `"status":"ok"`)
}

func TestInspectCommand(t *testing.T) {
	out, err := execute(t, "inspect", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: signup")
	assert.Contains(t, out, "- validate_email")
}
