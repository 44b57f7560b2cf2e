package dto

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// RegisterUserRequest defines the payload for user registration.
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest defines the payload for username/password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userID"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
}

// ToUserResponse converts a domain user to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{UserID: u.UserID, Name: u.Name}
}
