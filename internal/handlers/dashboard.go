package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/dto"
	apierrors "github.com/yukikurage/taskmaster-api/internal/errors"
	"github.com/yukikurage/taskmaster-api/internal/middleware"
	"github.com/yukikurage/taskmaster-api/internal/services"
)

type DashboardHandler struct {
	taskService *services.TaskService
	location    *time.Location
}

func NewDashboardHandler(taskService *services.TaskService, location *time.Location) *DashboardHandler {
	return &DashboardHandler{
		taskService: taskService,
		location:    location,
	}
}

// GetDashboard returns statistics, the 7-day history, the priority
// breakdown, recent tasks and upcoming tasks.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
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

	dashboard, err := h.taskService.Dashboard(userID, loc)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTO(dashboard))
}
