package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskmaster-api/internal/engine"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/taskfile"
)

// options are the global flags shared by every subcommand.
type options struct {
	file      string
	now       string
	tz        string
	output    string
	formatter Formatter
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Inspect an exported task file offline",
		Long:          "taskctl - filter tasks and compute dashboard statistics from a JSON or YAML task export.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			formatter, err := NewFormatter(opts.output)
			if err != nil {
				return err
			}
			opts.formatter = formatter
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", "", "Task export to read (.json, .yaml or .yml)")
	flags.StringVar(&opts.now, "now", "", "Reference time in RFC3339 (defaults to the current time)")
	flags.StringVar(&opts.tz, "tz", "", "IANA time zone for day boundaries (defaults to local)")
	flags.StringVarP(&opts.output, "output", "o", "text", "Output format: text, json or yaml")

	rootCmd.AddCommand(
		filterCmd(opts),
		statsCmd(opts),
		tagsCmd(opts),
	)

	return rootCmd
}

// load reads the task file and resolves the reference time.
func (o *options) load() ([]models.Task, time.Time, error) {
	if o.file == "" {
		return nil, time.Time{}, fmt.Errorf("--file is required")
	}

	now, err := o.referenceTime()
	if err != nil {
		return nil, time.Time{}, err
	}

	tasks, err := taskfile.Load(o.file)
	if err != nil {
		return nil, time.Time{}, err
	}
	return tasks, now, nil
}

func (o *options) referenceTime() (time.Time, error) {
	loc := time.Local
	if o.tz != "" {
		l, err := time.LoadLocation(o.tz)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --tz %q: %w", o.tz, err)
		}
		loc = l
	}

	if o.now == "" {
		return time.Now().In(loc), nil
	}
	now, err := time.Parse(time.RFC3339, o.now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", o.now, err)
	}
	return now.In(loc), nil
}

// filterCmd implements 'taskctl filter'.
func filterCmd(opts *options) *cobra.Command {
	var (
		view     string
		query    string
		priority string
		status   string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List the tasks matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			route, err := engine.ParseRoute(view)
			if err != nil {
				return err
			}
			criteria := engine.FilterCriteria{
				SearchQuery:  query,
				Priority:     models.TaskPriority(priority),
				Status:       models.TaskStatus(status),
				SelectedTags: tags,
				Route:        route,
			}
			if criteria.Priority != "" && !criteria.Priority.Valid() {
				return InvalidFlagError{Flag: "priority", Value: priority}
			}
			if criteria.Status != "" && !criteria.Status.Valid() {
				return InvalidFlagError{Flag: "status", Value: status}
			}

			all, now, err := opts.load()
			if err != nil {
				return err
			}

			return opts.formatter.Tasks(cmd.OutOrStdout(), engine.Filter(all, criteria, now))
		},
	}

	cmd.Flags().StringVar(&view, "view", "", "Route pre-filter: all, today, upcoming or completed")
	cmd.Flags().StringVar(&query, "q", "", "Case-insensitive search over title and description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: Low, Medium or High")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Status: Active or Completed")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tag to match; repeat to match any of several")

	return cmd
}

// statsCmd implements 'taskctl stats'.
func statsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, now, err := opts.load()
			if err != nil {
				return err
			}
			return opts.formatter.Dashboard(cmd.OutOrStdout(), engine.BuildDashboard(tasks, now))
		},
	}
}

// tagsCmd implements 'taskctl tags'.
func tagsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the distinct tags in first-seen order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, _, err := opts.load()
			if err != nil {
				return err
			}
			return opts.formatter.Tags(cmd.OutOrStdout(), engine.ExtractTags(tasks))
		},
	}
}
