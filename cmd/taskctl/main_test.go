package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const fixture = `[
  {"id": "1", "title": "Submit report", "due_date": "2026-10-16T18:00:00Z", "priority": "High", "status": "Active", "tags": ["work"], "created_at": "2026-10-10T09:00:00Z"},
  {"id": "2", "title": "Dentist", "due_date": "2026-10-18T09:00:00Z", "priority": "Medium", "status": "Active", "tags": ["health"], "created_at": "2026-10-11T09:00:00Z"},
  {"id": "3", "title": "Pay rent", "due_date": "2026-10-15T09:00:00Z", "priority": "High", "status": "Completed", "tags": ["home", "work"], "created_at": "2026-10-12T09:00:00Z"},
  {"id": "4", "title": "Read book", "priority": "Low", "status": "Active", "created_at": "2026-10-13T09:00:00Z"}
]`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	return path
}

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

func TestFilter_ViewAndTags(t *testing.T) {
	path := writeFixture(t)

	out, err := run(t, "filter", "--file", path, "--now", "2026-10-16T15:00:00Z", "--tz", "UTC", "--view", "today", "-o", "json")
	require.NoError(t, err)

	var today []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &today))
	require.Len(t, today, 1)
	assert.Equal(t, "1", today[0]["id"])

	out, err = run(t, "filter", "--file", path, "--tag", "work", "--tag", "health", "-o", "json")
	require.NoError(t, err)

	var tagged []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tagged))
	assert.Len(t, tagged, 3)
}

func TestFilter_QueryAndPriority(t *testing.T) {
	path := writeFixture(t)

	out, err := run(t, "filter", "--file", path, "--q", "RENT", "--priority", "High")
	require.NoError(t, err)
	assert.Contains(t, out, "Pay rent")
	assert.NotContains(t, out, "Submit report")

	out, err = run(t, "filter", "--file", path, "--q", "nothing-matches")
	require.NoError(t, err)
	assert.Equal(t, "No tasks found.\n", out)
}

func TestFilter_RejectsInvalidFlags(t *testing.T) {
	path := writeFixture(t)

	_, err := run(t, "filter", "--file", path, "--priority", "Urgent")
	var flagErr InvalidFlagError
	require.ErrorAs(t, err, &flagErr)
	assert.Equal(t, "priority", flagErr.Flag)

	_, err = run(t, "filter", "--file", path, "--view", "someday")
	assert.Error(t, err)

	_, err = run(t, "filter", "--file", path, "--now", "yesterday")
	assert.Error(t, err)

	_, err = run(t, "filter", "--file", path, "--tz", "Mars/Olympus")
	assert.Error(t, err)

	_, err = run(t, "filter")
	assert.Error(t, err)
}

func TestStats_YAML(t *testing.T) {
	path := writeFixture(t)

	out, err := run(t, "stats", "--file", path, "--now", "2026-10-16T15:00:00Z", "--tz", "UTC", "-o", "yaml")
	require.NoError(t, err)

	var view dashboardView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, 4, view.Stats.Total)
	assert.Equal(t, 1, view.Stats.Completed)
	assert.Equal(t, 25, view.Stats.CompletionRate)
	assert.Equal(t, 1, view.Stats.TodayTotal)
	assert.Len(t, view.History, 7)
	assert.Equal(t, "Oct 16", view.History[6].Label)
	assert.Equal(t, 2, view.UpcomingCount)
	require.Len(t, view.Recent, 4)
	assert.Equal(t, "4", view.Recent[0].ID)
}

func TestStats_Text(t *testing.T) {
	path := writeFixture(t)

	out, err := run(t, "stats", "--file", path, "--now", "2026-10-16T15:00:00Z", "--tz", "UTC")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:      4")
	assert.Contains(t, out, "Completed:  1 (25%)")
	assert.Contains(t, out, "Oct 16")
}

func TestTags(t *testing.T) {
	path := writeFixture(t)

	out, err := run(t, "tags", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "health", "home"}, strings.Fields(out))

	out, err = run(t, "tags", "--file", path, "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `["work","health","home"]`, out)
}

func TestUnknownOutput(t *testing.T) {
	path := writeFixture(t)

	_, err := run(t, "tags", "--file", path, "-o", "xml")
	var outErr UnknownOutputError
	assert.ErrorAs(t, err, &outErr)
}
