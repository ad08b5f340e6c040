// Package taskfile reads and writes task exports in JSON or YAML.
//
// A document is either a bare list of tasks or an object with a "tasks"
// key, which is the shape returned by GET /api/tasks.
package taskfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Record is the exported form of a task.
type Record struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     *time.Time `json:"due_date" yaml:"due_date"`
	Priority    string     `json:"priority" yaml:"priority"`
	Status      string     `json:"status" yaml:"status"`
	Tags        []string   `json:"tags" yaml:"tags"`
	Recurrence  *string    `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}

type document struct {
	Tasks []Record `json:"tasks" yaml:"tasks"`
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", UnsupportedFormatError{Path: path}
	}
}

// Load reads the task export at path.
func Load(path string) ([]models.Task, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, format)
}

// Decode parses a task export and validates every record.
func Decode(r io.Reader, format Format) ([]models.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var records []Record
	switch format {
	case FormatJSON:
		records, err = decodeJSON(data)
	case FormatYAML:
		records, err = decodeYAML(data)
	default:
		return nil, UnsupportedFormatError{Path: string(format)}
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	tasks := make([]models.Task, 0, len(records))
	for i, rec := range records {
		task, err := rec.toTask(i)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func decodeJSON(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var records []Record
		err := json.Unmarshal(trimmed, &records)
		return records, err
	}
	var doc document
	err := json.Unmarshal(trimmed, &doc)
	return doc.Tasks, err
}

func decodeYAML(data []byte) ([]Record, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	if root.Content[0].Kind == yaml.SequenceNode {
		var records []Record
		err := root.Content[0].Decode(&records)
		return records, err
	}
	var doc document
	err := root.Content[0].Decode(&doc)
	return doc.Tasks, err
}

func (r Record) toTask(index int) (models.Task, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return models.Task{}, InvalidRecordError{Index: index, Field: "title", Value: r.Title}
	}

	priority := models.TaskPriority(r.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return models.Task{}, InvalidRecordError{Index: index, Field: "priority", Value: r.Priority}
	}

	status := models.TaskStatus(r.Status)
	if status == "" {
		status = models.TaskStatusActive
	}
	if !status.Valid() {
		return models.Task{}, InvalidRecordError{Index: index, Field: "status", Value: r.Status}
	}

	recurrence := models.RecurrenceNone
	if r.Recurrence != nil {
		recurrence = models.TaskRecurrence(*r.Recurrence)
		if !recurrence.Valid() {
			return models.Task{}, InvalidRecordError{Index: index, Field: "recurrence", Value: *r.Recurrence}
		}
	}

	id := r.ID
	if id == "" {
		id = fmt.Sprintf("task-%d", index+1)
	}

	return models.Task{
		ID:          id,
		Title:       title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    priority,
		Status:      status,
		Tags:        r.Tags,
		Recurrence:  recurrence,
		CreatedAt:   r.CreatedAt,
	}, nil
}

// ToRecord converts a task to its exported form.
func ToRecord(task models.Task) Record {
	rec := Record{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		Tags:        task.Tags,
		CreatedAt:   task.CreatedAt,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if task.Recurrence != models.RecurrenceNone {
		recurrence := string(task.Recurrence)
		rec.Recurrence = &recurrence
	}
	return rec
}

// ToRecords converts tasks to their exported form, never returning nil.
func ToRecords(tasks []models.Task) []Record {
	records := make([]Record, len(tasks))
	for i, task := range tasks {
		records[i] = ToRecord(task)
	}
	return records
}

// Encode writes v as indented JSON or YAML.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return UnsupportedFormatError{Path: string(format)}
	}
}
