package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedTasks(t *testing.T) {
	content := "```json\n[{\"title\": \"Book flights\", \"priority\": \"High\", \"tags\": [\"travel\"], \"due_date\": \"2026-10-20T00:00:00Z\"}]\n```"

	tasks, err := parseGeneratedTasks(content)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Book flights", tasks[0].Title)
	assert.Equal(t, "High", tasks[0].Priority)
	assert.Equal(t, []string{"travel"}, tasks[0].Tags)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, 20, tasks[0].DueDate.Day())
}

func TestParseGeneratedTasks_PlainJSON(t *testing.T) {
	tasks, err := parseGeneratedTasks(`[{"title": "a"}, {"title": "b"}]`)

	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestParseGeneratedTasks_Malformed(t *testing.T) {
	_, err := parseGeneratedTasks("Sure! Here are your tasks.")

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "Here are your tasks")
}
