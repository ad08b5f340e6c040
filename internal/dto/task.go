package dto

import (
	"time"

	"github.com/yukikurage/taskmaster-api/internal/engine"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	DueDate     *time.Time             `json:"due_date"`
	Priority    models.TaskPriority    `json:"priority"`
	Status      models.TaskStatus      `json:"status"`
	Tags        []string               `json:"tags"`
	Recurrence  *models.TaskRecurrence `json:"recurrence"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
}

// TagsResponse lists the distinct tags of the user's tasks
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// DashboardDTO is the dashboard payload
type DashboardDTO struct {
	Stats         engine.DashboardStats  `json:"stats"`
	History       []engine.DayCount      `json:"history"`
	Priorities    []engine.PriorityCount `json:"priorities"`
	RecentTasks   []TaskDTO              `json:"recent_tasks"`
	UpcomingTasks []TaskDTO              `json:"upcoming_tasks"`
	UpcomingCount int                    `json:"upcoming_count"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		Tags:        task.Tags,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if dto.Tags == nil {
		dto.Tags = []string{}
	}
	if task.Recurrence != models.RecurrenceNone {
		recurrence := task.Recurrence
		dto.Recurrence = &recurrence
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse pages through the filtered tasks
func ToTaskListResponse(tasks []models.Task, p utils.PaginationParams) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(utils.Paginate(tasks, p)),
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      len(tasks),
		TotalPages: utils.TotalPages(len(tasks), p.Limit),
	}
}

// ToDashboardDTO converts the computed dashboard
func ToDashboardDTO(d engine.Dashboard) DashboardDTO {
	return DashboardDTO{
		Stats:         d.Stats,
		History:       d.History,
		Priorities:    d.Priorities,
		RecentTasks:   ToTaskDTOs(d.Recent),
		UpcomingTasks: ToTaskDTOs(d.Upcoming),
		UpcomingCount: d.UpcomingCount,
	}
}
