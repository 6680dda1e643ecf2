package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/testutil"
)

type cli struct {
	configPath string
}

func newCLI(t *testing.T, store string) *cli {
	t.Helper()
	server := testutil.NewServer(t)
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("api_url: %s/\nstore: %s\nstate_path: %s\nrequest_timeout: 5s\n",
		server.URL, store, filepath.Join(dir, "state.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return &cli{configPath: configPath}
}

func (c *cli) run(stdin string, args ...string) (string, string, error) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", c.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (c *cli) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := c.run("", args...)
	require.NoError(t, err, stderr)
	return stdout
}

func TestTaskWorkflow(t *testing.T) {
	for _, store := range []string{"sqlite", "yaml"} {
		t.Run(store, func(t *testing.T) {
			c := newCLI(t, store)

			out := c.mustRun(t, "register", "-e", "ada@example.com", "-p", "secret123", "--confirm", "secret123")
			assert.Contains(t, out, "Registration successful")

			out, _, err := c.run("ada@example.com\nsecret123\n", "login")
			require.NoError(t, err)
			assert.Contains(t, out, "Logged in.")

			out = c.mustRun(t, "tasks", "add", "Write", "report", "-n", "3", "--due", "2026-11-02")
			assert.Contains(t, out, "Created task 1: Write report")
			c.mustRun(t, "tasks", "add", "Inbox zero")

			out = c.mustRun(t, "tasks", "activate", "1")
			assert.Contains(t, out, "Task 1 is now active.")

			out = c.mustRun(t, "tasks", "list")
			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 3)
			assert.Contains(t, lines[1], "Write report")
			assert.Contains(t, lines[1], "*")
			assert.Contains(t, lines[1], "0/3")
			assert.Contains(t, lines[1], "2026-11-02")
			assert.Contains(t, lines[2], "Inbox zero")

			out = c.mustRun(t, "tasks", "done", "2")
			assert.Contains(t, out, "Task 2 is done.")

			c.mustRun(t, "tasks", "rm", "1")
			out = c.mustRun(t, "tasks", "deactivate")
			assert.Contains(t, out, "No active task.", "deleting the active task clears the binding")

			c.mustRun(t, "logout")
			_, _, err = c.run("", "tasks", "list")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not logged in")
		})
	}
}

func TestSignedOutCommandsAreGated(t *testing.T) {
	c := newCLI(t, "yaml")

	_, stderr, err := c.run("", "tasks", "add", "x")
	require.Error(t, err)
	assert.Contains(t, stderr, "You must be logged in to create tasks.")
	assert.ErrorAs(t, err, new(reportedError))
}

func TestRegisterPasswordMismatch(t *testing.T) {
	c := newCLI(t, "sqlite")

	_, stderr, err := c.run("", "register", "-e", "ada@example.com", "-p", "secret123", "--confirm", "other")
	require.Error(t, err)
	assert.Contains(t, stderr, "Passwords do not match.")
}

func TestLoginWithWrongPassword(t *testing.T) {
	c := newCLI(t, "sqlite")
	c.mustRun(t, "register", "-e", "ada@example.com", "-p", "secret123", "--confirm", "secret123")

	_, stderr, err := c.run("", "login", "-e", "ada@example.com", "-p", "nope12345")
	require.Error(t, err)
	assert.Contains(t, stderr, "Login failed: invalid email or password")
}

func TestSettingsCommands(t *testing.T) {
	c := newCLI(t, "yaml")

	out := c.mustRun(t, "settings", "show")
	assert.Contains(t, out, "Pomodoro     25 min")
	assert.Contains(t, out, "Short Break  5 min")
	assert.Contains(t, out, "Long Break   15 min")

	out = c.mustRun(t, "settings", "set", "focus", "50")
	assert.Contains(t, out, "Settings updated successfully!")

	_, stderr, err := c.run("", "settings", "set", "long", "0")
	require.Error(t, err)
	assert.Contains(t, stderr, "Long Break duration must be a positive number.")

	out = c.mustRun(t, "settings", "show")
	assert.Contains(t, out, "Pomodoro     50 min")
	assert.Contains(t, out, "Long Break   15 min")

	_, _, err = c.run("", "settings", "set", "lunch", "30")
	assert.Error(t, err)
}

func TestInvalidTaskID(t *testing.T) {
	c := newCLI(t, "sqlite")
	_, _, err := c.run("", "tasks", "rm", "abc")
	assert.EqualError(t, err, `invalid task id "abc"`)
}
