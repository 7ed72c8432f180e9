package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestAccountFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	common := []string{"--db", db, "--seed", "5"}
	with := func(args ...string) []string { return append(args, common...) }

	out, err := run(t, with("signup", "--email", "ana@example.com", "--password", "password1", "--name", "Ana")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Ana!")

	_, err = run(t, with("signup", "--email", "ana@example.com", "--password", "password1", "--name", "Ana")...)
	assert.Error(t, err)

	out, err = run(t, with("login", "--email", "ana@example.com", "--password", "password1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Ana (#1)")
	assert.Contains(t, out, "Engagement")

	_, err = run(t, with("login", "--email", "ana@example.com", "--password", "wrong-password")...)
	assert.Error(t, err)

	out, err = run(t, with("nudges", "--email", "ana@example.com", "--limit", "2")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Ana (#1)")

	_, err = run(t, with("urgent", "--email", "ana@example.com")...)
	require.NoError(t, err)

	out, err = run(t, with("send", "--email", "ana@example.com", "--response", "engaged")...)
	require.NoError(t, err)
	assert.Contains(t, out, "sent via")
	assert.Contains(t, out, "deliveries")

	out, err = run(t, with("active")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Active nudges for 1 learners")

	out, err = run(t, with("stats")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Cohort of 1 learners")
	assert.Contains(t, out, "Nudge responses")

	_, err = run(t, with("nudges", "--email", "ghost@example.com")...)
	assert.Error(t, err)
}

func TestStatsEmptyCohort(t *testing.T) {
	out, err := run(t, "stats", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No learners registered yet")
}

func TestSimulate(t *testing.T) {
	out, err := run(t, "simulate", "--profile", "at_risk", "--days", "3", "--ticks", "2", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Simulated Learner")
	assert.Contains(t, out, "Last 3 days")
	assert.Contains(t, out, "Risk")

	_, err = run(t, "simulate", "--profile", "bogus")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "learnpulse ")
}
