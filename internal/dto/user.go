package dto

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
)

// UserDTO represents the authenticated user in API responses
type UserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
}

// PublicUserDTO is the view of a user shown to other users
type PublicUserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileDTO is the combined User+Profile view
type ProfileDTO struct {
	UserDTO
	Avatar    string    `json:"avatar"`
	Position  string    `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterResponse is returned for a new, still pending account
type RegisterResponse struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
	Message  string `json:"message"`
}

// LoginResponse carries the bearer token issued at login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
	}
}

// ToPublicUserDTO converts a User model to PublicUserDTO
func ToPublicUserDTO(user models.User) PublicUserDTO {
	return PublicUserDTO{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToPublicUserDTOs converts a list of users
func ToPublicUserDTOs(users []models.User) []PublicUserDTO {
	result := make([]PublicUserDTO, len(users))
	for i, user := range users {
		result[i] = ToPublicUserDTO(user)
	}
	return result
}

// ToProfileDTO merges a user and its profile
func ToProfileDTO(user models.User, profile models.Profile) ProfileDTO {
	return ProfileDTO{
		UserDTO:   ToUserDTO(user),
		Avatar:    profile.Avatar,
		Position:  profile.Position,
		UpdatedAt: profile.UpdatedAt,
	}
}
