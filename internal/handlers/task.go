package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/dto"
	"github.com/yukikurage/taskmaster-api/internal/engine"
	apierrors "github.com/yukikurage/taskmaster-api/internal/errors"
	"github.com/yukikurage/taskmaster-api/internal/middleware"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/services"
	"github.com/yukikurage/taskmaster-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	location    *time.Location
}

// NewTaskHandler creates a TaskHandler. location is the default zone for
// day boundaries when a request does not name one.
func NewTaskHandler(taskService *services.TaskService, location *time.Location) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		location:    location,
	}
}

// ListTasks returns the current user's tasks filtered by the query parameters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	h.listTasks(c, engine.RouteNone)
}

// ListView returns a handler that lists tasks for a fixed view
func (h *TaskHandler) ListView(route engine.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.listTasks(c, route)
	}
}

func (h *TaskHandler) listTasks(c *gin.Context, route engine.Route) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	loc, err := requestLocation(c, h.location)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	criteria, err := filterCriteria(c, route)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.ListFiltered(userID, criteria, loc)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, utils.GetPaginationParams(c)))
}

// ListTags returns every distinct tag of the current user's tasks
func (h *TaskHandler) ListTags(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tags, err := h.taskService.Tags(userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TagsResponse{Tags: tags})
}

// GetTask returns a specific task by ID
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string                 `json:"title" binding:"required"`
		Description string                 `json:"description"`
		DueDate     *time.Time             `json:"due_date"`
		Priority    models.TaskPriority    `json:"priority"`
		Status      models.TaskStatus      `json:"status"`
		Tags        []string               `json:"tags"`
		Recurrence  *models.TaskRecurrence `json:"recurrence"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		Tags:        req.Tags,
	}
	if req.Recurrence != nil {
		input.Recurrence = *req.Recurrence
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update. An explicit null clears the due
// date, description, tags or recurrence.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		Title       Optional[string]                `json:"title"`
		Description Optional[string]                `json:"description"`
		DueDate     Optional[time.Time]             `json:"due_date"`
		Priority    Optional[models.TaskPriority]   `json:"priority"`
		Status      Optional[models.TaskStatus]     `json:"status"`
		Tags        Optional[[]string]              `json:"tags"`
		Recurrence  Optional[models.TaskRecurrence] `json:"recurrence"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Title.Null || req.Priority.Null || req.Status.Null {
		apierrors.BadRequest(c, "title, priority and status cannot be null")
		return
	}

	input := services.UpdateTaskInput{
		Title:           req.Title.Ptr(),
		Description:     req.Description.Ptr(),
		DueDate:         req.DueDate.Ptr(),
		ClearDueDate:    req.DueDate.Null,
		Priority:        req.Priority.Ptr(),
		Status:          req.Status.Ptr(),
		Tags:            req.Tags.Ptr(),
		Recurrence:      req.Recurrence.Ptr(),
		ClearRecurrence: req.Recurrence.Null,
	}
	if req.Description.Null {
		empty := ""
		input.Description = &empty
	}
	if req.Tags.Null {
		input.Tags = &[]string{}
	}

	updated, err := h.taskService.UpdateTask(task.ID, task.UserID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// ToggleTask flips the task between Active and Completed
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	updated, err := h.taskService.ToggleStatus(task.ID, task.UserID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(task.ID, task.UserID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GenerateTasks suggests tasks from free-form text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	generatedTasks, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generatedTasks,
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidRecurrence),
		errors.Is(err, services.ErrTextRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAIRequestFailed):
		log.Printf("Task generation failed: %v", err)
		apierrors.BadGateway(c, "Failed to generate tasks")
	case errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidInput, err.Error()))
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
