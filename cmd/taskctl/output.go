package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yukikurage/taskmaster-api/internal/engine"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/taskfile"
)

// Formatter renders command results.
type Formatter interface {
	Tasks(w io.Writer, tasks []models.Task) error
	Dashboard(w io.Writer, d engine.Dashboard) error
	Tags(w io.Writer, tags []string) error
}

// NewFormatter returns the formatter for an --output value.
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return &TextFormatter{}, nil
	case "json":
		return &EncodingFormatter{format: taskfile.FormatJSON}, nil
	case "yaml", "yml":
		return &EncodingFormatter{format: taskfile.FormatYAML}, nil
	default:
		return nil, UnknownOutputError{Value: name}
	}
}

// dashboardView is the serialized form of engine.Dashboard, with tasks in
// task file form so the YAML keys match the JSON ones.
type dashboardView struct {
	Stats         engine.DashboardStats  `json:"stats" yaml:"stats"`
	History       []engine.DayCount      `json:"history" yaml:"history"`
	Priorities    []engine.PriorityCount `json:"priorities" yaml:"priorities"`
	Recent        []taskfile.Record      `json:"recent_tasks" yaml:"recent_tasks"`
	Upcoming      []taskfile.Record      `json:"upcoming_tasks" yaml:"upcoming_tasks"`
	UpcomingCount int                    `json:"upcoming_count" yaml:"upcoming_count"`
}

// EncodingFormatter writes machine-readable JSON or YAML.
type EncodingFormatter struct {
	format taskfile.Format
}

func (f *EncodingFormatter) Tasks(w io.Writer, tasks []models.Task) error {
	return taskfile.Encode(w, f.format, taskfile.ToRecords(tasks))
}

func (f *EncodingFormatter) Dashboard(w io.Writer, d engine.Dashboard) error {
	return taskfile.Encode(w, f.format, dashboardView{
		Stats:         d.Stats,
		History:       d.History,
		Priorities:    d.Priorities,
		Recent:        taskfile.ToRecords(d.Recent),
		Upcoming:      taskfile.ToRecords(d.Upcoming),
		UpcomingCount: d.UpcomingCount,
	})
}

func (f *EncodingFormatter) Tags(w io.Writer, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return taskfile.Encode(w, f.format, tags)
}

// TextFormatter writes aligned, human-readable tables.
type TextFormatter struct{}

const dateLayout = "2006-01-02 15:04"

func (f *TextFormatter) Tasks(w io.Writer, tasks []models.Task) error {
	if len(tasks) == 0 {
		_, err := io.WriteString(w, "No tasks found.\n")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tPRIORITY\tDUE\tTITLE\tTAGS")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			statusIcon(t.Status), t.Priority, formatDue(t), t.Title, strings.Join(t.Tags, ","))
	}
	return tw.Flush()
}

func (f *TextFormatter) Dashboard(w io.Writer, d engine.Dashboard) error {
	var sb strings.Builder

	s := d.Stats
	sb.WriteString(fmt.Sprintf("Total:      %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("Completed:  %d (%d%%)\n", s.Completed, s.CompletionRate))
	sb.WriteString(fmt.Sprintf("Active:     %d\n", s.Active))
	sb.WriteString(fmt.Sprintf("Due today:  %d/%d done\n", s.TodayCompleted, s.TodayTotal))
	sb.WriteString(fmt.Sprintf("Upcoming:   %d\n", d.UpcomingCount))

	sb.WriteString("\nLast 7 days:\n")
	for _, day := range d.History {
		sb.WriteString(fmt.Sprintf("  %-7s %s %d\n", day.Label, strings.Repeat("#", day.Count), day.Count))
	}

	sb.WriteString("\nBy priority:\n")
	for _, p := range d.Priorities {
		sb.WriteString(fmt.Sprintf("  %-7s %d\n", p.Priority, p.Count))
	}

	if len(d.Recent) > 0 {
		sb.WriteString("\nRecently created:\n")
		for _, t := range d.Recent {
			sb.WriteString(fmt.Sprintf("  %s %s\n", statusIcon(t.Status), t.Title))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (f *TextFormatter) Tags(w io.Writer, tags []string) error {
	if len(tags) == 0 {
		_, err := io.WriteString(w, "No tags found.\n")
		return err
	}
	_, err := io.WriteString(w, strings.Join(tags, "\n")+"\n")
	return err
}

func statusIcon(s models.TaskStatus) string {
	if s == models.TaskStatusCompleted {
		return "[x]"
	}
	return "[ ]"
}

func formatDue(t models.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	return t.DueDate.Format(dateLayout)
}
