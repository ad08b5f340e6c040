package dto

import "github.com/yukikurage/taskmaster-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64       `json:"id"`
	Username string       `json:"username"`
	Email    *string      `json:"email"`
	Theme    models.Theme `json:"theme"`
}

// AuthResponse is returned after a successful register or login
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Theme:    user.Theme,
	}
}
