package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/taskmaster-api/internal/constants"
	"github.com/yukikurage/taskmaster-api/internal/engine"
	"github.com/yukikurage/taskmaster-api/internal/events"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidPriority        = errors.New("priority must be High, Medium or Low")
	ErrInvalidStatus          = errors.New("status must be Active or Completed")
	ErrInvalidRecurrence      = errors.New("recurrence must be Daily, Weekly or Monthly")
	ErrTextRequired           = errors.New("text is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
	ErrAIRequestFailed        = errors.New("failed to generate tasks")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	bus       *events.Bus
	generator TaskGenerator
	now       func() time.Time
}

// NewTaskService creates a new TaskService. generator may be nil when AI
// suggestions are not configured.
func NewTaskService(taskRepo repository.TaskRepository, bus *events.Bus, generator TaskGenerator) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		bus:       bus,
		generator: generator,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for day boundaries and timestamps.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      uint64
	Title       string
	Description string
	DueDate     *time.Time
	Priority    models.TaskPriority
	Status      models.TaskStatus
	Tags        []string
	Recurrence  models.TaskRecurrence
}

// UpdateTaskInput represents a partial update. Nil fields are left untouched;
// the Clear flags remove a value explicitly.
type UpdateTaskInput struct {
	Title           *string
	Description     *string
	DueDate         *time.Time
	ClearDueDate    bool
	Priority        *models.TaskPriority
	Status          *models.TaskStatus
	Tags            *[]string
	Recurrence      *models.TaskRecurrence
	ClearRecurrence bool
}

// ListAll returns the user's full task snapshot in creation order
func (s *TaskService) ListAll(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListFiltered returns the tasks that satisfy the criteria, with day
// boundaries taken in loc.
func (s *TaskService) ListFiltered(userID uint64, criteria engine.FilterCriteria, loc *time.Location) ([]models.Task, error) {
	if criteria.Priority != "" && !criteria.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if criteria.Status != "" && !criteria.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	tasks, err := s.ListAll(userID)
	if err != nil {
		return nil, err
	}
	return engine.Filter(tasks, criteria, s.localNow(loc)), nil
}

// Tags returns every distinct tag used by the user's tasks
func (s *TaskService) Tags(userID uint64) ([]string, error) {
	tasks, err := s.ListAll(userID)
	if err != nil {
		return nil, err
	}
	return engine.ExtractTags(tasks), nil
}

// Dashboard computes the dashboard views over the user's tasks
func (s *TaskService) Dashboard(userID uint64, loc *time.Location) (engine.Dashboard, error) {
	tasks, err := s.ListAll(userID)
	if err != nil {
		return engine.Dashboard{}, err
	}
	return engine.BuildDashboard(tasks, s.localNow(loc)), nil
}

// GetTask returns a task owned by the user
func (s *TaskService) GetTask(id string, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates the input and stores a new task
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if input.Status == "" {
		input.Status = models.TaskStatusActive
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !input.Recurrence.Valid() {
		return nil, ErrInvalidRecurrence
	}

	task := &models.Task{
		UserID:      input.UserID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      input.Status,
		Tags:        NormalizeTags(input.Tags),
		Recurrence:  input.Recurrence,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publish(events.TopicTaskCreated, task)
	return task, nil
}

// UpdateTask applies a partial update to a task owned by the user
func (s *TaskService) UpdateTask(id string, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Tags != nil {
		task.Tags = NormalizeTags(*input.Tags)
	}
	if input.ClearRecurrence {
		task.Recurrence = models.RecurrenceNone
	} else if input.Recurrence != nil {
		if !input.Recurrence.Valid() {
			return nil, ErrInvalidRecurrence
		}
		task.Recurrence = *input.Recurrence
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.publish(events.TopicTaskUpdated, task)
	return task, nil
}

// ToggleStatus flips a task between Active and Completed. Recurring tasks
// are not rescheduled.
func (s *TaskService) ToggleStatus(id string, userID uint64) (*models.Task, error) {
	task, err := s.GetTask(id, userID)
	if err != nil {
		return nil, err
	}

	if task.IsCompleted() {
		task.Status = models.TaskStatusActive
	} else {
		task.Status = models.TaskStatusCompleted
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.publish(events.TopicTaskUpdated, task)
	return task, nil
}

// DeleteTask removes a task owned by the user
func (s *TaskService) DeleteTask(id string, userID uint64) error {
	if err := s.taskRepo.Delete(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.bus.Publish(events.Event{
		Topic:      events.TopicTaskDeleted,
		UserID:     userID,
		TaskID:     id,
		OccurredAt: s.now(),
	})
	return nil
}

// GenerateTasks uses AI to suggest tasks from text. Suggestions are not stored.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	now := s.now()
	aiTasks, err := s.generator.GenerateTasksFromText(ctx, text, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIRequestFailed, err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := now.Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}

		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}
		if !models.TaskPriority(aiTask.Priority).Valid() {
			aiTask.Priority = string(models.PriorityMedium)
		}
		aiTask.Tags = NormalizeTags(aiTask.Tags)

		validTasks = append(validTasks, aiTask)
		if len(validTasks) == constants.MaxAIGeneratedTasks {
			break
		}
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// NormalizeTags trims tags, dropping blanks and repeats while keeping order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, exists := seen[tag]; exists {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}

	return result
}

func (s *TaskService) localNow(loc *time.Location) time.Time {
	if loc == nil {
		return s.now()
	}
	return s.now().In(loc)
}

func (s *TaskService) publish(topic events.Topic, task *models.Task) {
	s.bus.Publish(events.Event{
		Topic:      topic,
		UserID:     task.UserID,
		TaskID:     task.ID,
		OccurredAt: s.now(),
	})
}
