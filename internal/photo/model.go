package photo

import (
	"net/http"
	"time"

	"github.com/renttogether/renttogether-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "photo not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "not the owner of this car")
	ErrTooManyFiles     = apperror.New(http.StatusBadRequest, "at most 10 photos per upload")
	ErrFileTooLarge     = apperror.New(http.StatusBadRequest, "photo exceeds the 5 MB limit")
	ErrNotAnImage       = apperror.New(http.StatusBadRequest, "file is not a supported image")
	ErrNoFiles          = apperror.New(http.StatusBadRequest, "no photos in request")
)

// Photo is a single image attached to a car listing.
type Photo struct {
	ID           string // UUID
	CarID        string
	PhotoURL     string
	IsMain       bool
	DisplayOrder int
	CreatedAt    time.Time
}
