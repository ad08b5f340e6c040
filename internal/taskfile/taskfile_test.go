package taskfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskmaster-api/internal/models"
)

func TestDecodeJSON_List(t *testing.T) {
	input := `[
  {"id": "a", "title": "Write report", "due_date": "2026-10-16T18:00:00Z", "priority": "High", "status": "Active", "tags": ["work"], "created_at": "2026-10-01T09:00:00Z"},
  {"title": "Buy milk", "due_date": null, "recurrence": "Weekly"}
]`

	tasks, err := Decode(strings.NewReader(input), FormatJSON)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, models.PriorityHigh, tasks[0].Priority)
	require.NotNil(t, tasks[0].DueDate)
	assert.True(t, tasks[0].DueDate.Equal(time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"work"}, tasks[0].Tags)

	assert.Equal(t, "task-2", tasks[1].ID)
	assert.Equal(t, models.PriorityMedium, tasks[1].Priority)
	assert.Equal(t, models.TaskStatusActive, tasks[1].Status)
	assert.Equal(t, models.RecurrenceWeekly, tasks[1].Recurrence)
	assert.Nil(t, tasks[1].DueDate)
}

func TestDecodeJSON_APIResponseShape(t *testing.T) {
	input := `{"tasks": [{"id": "x", "title": "From API"}], "page": 1, "limit": 50, "total": 1}`

	tasks, err := Decode(strings.NewReader(input), FormatJSON)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "From API", tasks[0].Title)
}

func TestDecodeYAML(t *testing.T) {
	input := `
tasks:
  - id: a
    title: Plan trip
    due_date: 2026-10-20T09:00:00Z
    priority: Low
    status: Completed
    tags: [travel, family]
  - title: Call mom
`

	tasks, err := Decode(strings.NewReader(input), FormatYAML)

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, models.TaskStatusCompleted, tasks[0].Status)
	assert.Equal(t, []string{"travel", "family"}, tasks[0].Tags)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, 20, tasks[0].DueDate.Day())
	assert.Equal(t, "Call mom", tasks[1].Title)
}

func TestDecodeYAML_BareList(t *testing.T) {
	tasks, err := Decode(strings.NewReader("- title: one\n- title: two\n"), FormatYAML)

	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestDecode_Empty(t *testing.T) {
	tasks, err := Decode(strings.NewReader("  "), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	tasks, err = Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDecode_InvalidRecord(t *testing.T) {
	cases := map[string]string{
		"title":      `[{"title": "ok"}, {"title": "  "}]`,
		"priority":   `[{"title": "x", "priority": "Urgent"}]`,
		"status":     `[{"title": "x", "status": "Done"}]`,
		"recurrence": `[{"title": "x", "recurrence": "Hourly"}]`,
	}

	for field, input := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := Decode(strings.NewReader(input), FormatJSON)

			var recErr InvalidRecordError
			require.True(t, errors.As(err, &recErr), "got %v", err)
			assert.Equal(t, field, recErr.Field)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"), FormatJSON)
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	format, err := FormatForPath("tasks.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	format, err = FormatForPath("export.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, format)

	_, err = FormatForPath("tasks.csv")
	var formatErr UnsupportedFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- title: from disk\n"), 0o600))

	tasks, err := Load(path)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "from disk", tasks[0].Title)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeRecordsCanBeReadBack(t *testing.T) {
	due := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	original := []models.Task{
		{ID: "a", Title: "One", DueDate: &due, Priority: models.PriorityHigh, Status: models.TaskStatusActive, Recurrence: models.RecurrenceDaily},
		{ID: "b", Title: "Two", Priority: models.PriorityLow, Status: models.TaskStatusCompleted},
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, format, ToRecords(original)))

			decoded, err := Decode(&buf, format)

			require.NoError(t, err)
			require.Len(t, decoded, 2)
			assert.Equal(t, models.RecurrenceDaily, decoded[0].Recurrence)
			assert.True(t, decoded[0].DueDate.Equal(due))
			assert.Equal(t, models.TaskStatusCompleted, decoded[1].Status)
			assert.Equal(t, []string{}, decoded[1].Tags)
		})
	}
}
