package user

import (
	"net/http"
	"time"

	"github.com/renttogether/renttogether-backend/internal/pkg/apperror"
	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusForbidden, "user is inactive")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
	ErrNameRequired       = apperror.New(http.StatusBadRequest, "first name, last name and phone are required")
)

// User represents a registered account: a renter, a car owner, or both.
type User struct {
	ID                     string // UUID
	Email                  string
	PasswordHash           string
	FirstName              string
	LastName               string
	Phone                  string
	DateOfBirth            *dateonly.Date
	DriverLicenseNumber    *string
	DriverLicenseIssueDate *dateonly.Date
	DriverLicenseExpiry    *dateonly.Date
	Address                *string
	PassportNumber         *string
	AvatarURL              *string
	IsVerified             bool
	IsActive               bool
	IsAdmin                bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
	LastLoginAt            *time.Time
}
