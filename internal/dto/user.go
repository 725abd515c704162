package dto

import (
	"time"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a user directly (admin
// path; registration approval reuses the same shape with status PENDING).
type CreateUserRequest struct {
	Name       string          `json:"name" binding:"required"`
	Phone      string          `json:"phone" binding:"required"`
	Role       domain.Role     `json:"role" binding:"required,oneof=ADMIN SUPERVISOR PARTNER"`
	AccessCode string          `json:"accessCode" binding:"required,min=4"`
	Status     *domain.UserStatus `json:"status"`
}

// UpdateUserRequest updates mutable user fields. Pointers distinguish
// zero-value updates from fields not provided.
type UpdateUserRequest struct {
	Name   *string            `json:"name"`
	Status *domain.UserStatus `json:"status"`
}

// UserResponse is the outward shape of a user record.
type UserResponse struct {
	UserID    string            `json:"userID"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone"`
	Role      domain.Role       `json:"role"`
	Status    domain.UserStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// ToUserResponse converts a domain user to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain users.
func ToUserResponses(users []domain.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i := range users {
		res[i] = ToUserResponse(&users[i])
	}
	return res
}
