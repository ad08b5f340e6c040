package repository

import (
	"github.com/yukikurage/taskmaster-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task owned by the given user
	FindByID(id string, userID uint64) (*models.Task, error)

	// ListByUser returns every task of a user in creation order
	ListByUser(userID uint64) ([]models.Task, error)

	// Update saves all fields of a task
	Update(task *models.Task) error

	// Delete soft deletes a task owned by the given user
	Delete(id string, userID uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email address
	FindByEmail(email string) (*models.User, error)

	// Update saves all fields of a user
	Update(user *models.User) error
}
