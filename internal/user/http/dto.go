package http

import (
	"time"

	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
	"github.com/renttogether/renttogether-backend/internal/user"
)

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID                     string         `json:"id"`
	Email                  string         `json:"email"`
	FirstName              string         `json:"first_name"`
	LastName               string         `json:"last_name"`
	Phone                  string         `json:"phone"`
	DateOfBirth            *dateonly.Date `json:"date_of_birth,omitempty"`
	DriverLicenseNumber    *string        `json:"driver_license_number,omitempty"`
	DriverLicenseIssueDate *dateonly.Date `json:"driver_license_issue_date,omitempty"`
	DriverLicenseExpiry    *dateonly.Date `json:"driver_license_expiry_date,omitempty"`
	Address                *string        `json:"address,omitempty"`
	PassportNumber         *string        `json:"passport_number,omitempty"`
	AvatarURL              *string        `json:"avatar_url,omitempty"`
	IsVerified             bool           `json:"is_verified"`
	CreatedAt              time.Time      `json:"created_at"`
}

// NewUserResponse converts domain user.User to UserResponse used by the API.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:                     u.ID,
		Email:                  u.Email,
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		Phone:                  u.Phone,
		DateOfBirth:            u.DateOfBirth,
		DriverLicenseNumber:    u.DriverLicenseNumber,
		DriverLicenseIssueDate: u.DriverLicenseIssueDate,
		DriverLicenseExpiry:    u.DriverLicenseExpiry,
		Address:                u.Address,
		PassportNumber:         u.PassportNumber,
		AvatarURL:              u.AvatarURL,
		IsVerified:             u.IsVerified,
		CreatedAt:              u.CreatedAt,
	}
}

// RegisterRequest defines the payload for user registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

// LoginRequest defines the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// UpdateProfileRequest defines the payload for profile updates.
type UpdateProfileRequest struct {
	FirstName              string         `json:"first_name" binding:"required"`
	LastName               string         `json:"last_name" binding:"required"`
	Phone                  string         `json:"phone" binding:"required"`
	DateOfBirth            *dateonly.Date `json:"date_of_birth"`
	DriverLicenseNumber    *string        `json:"driver_license_number"`
	DriverLicenseIssueDate *dateonly.Date `json:"driver_license_issue_date"`
	DriverLicenseExpiry    *dateonly.Date `json:"driver_license_expiry_date"`
	Address                *string        `json:"address"`
	PassportNumber         *string        `json:"passport_number"`
}
