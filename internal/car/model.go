package car

import (
	"net/http"
	"time"

	"github.com/renttogether/renttogether-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "car not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "not the owner of this car")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "daily price must be positive")
	ErrInvalidYear      = apperror.New(http.StatusBadRequest, "invalid manufacture year")
)

// Car is a vehicle listed on the marketplace. Listings are never deleted;
// owners toggle IsAvailable to pull a car from the catalog.
type Car struct {
	ID              string // UUID
	OwnerID         string
	Brand           string
	Model           string
	Year            int
	LicensePlate    string
	VIN             *string
	Color           *string
	Category        *string
	CarClass        *string
	Seats           int
	Doors           int
	FuelType        string
	Transmission    string
	FuelConsumption *float64
	EngineCapacity  *float64
	Horsepower      *int
	Description     *string
	DailyPrice      float64
	Address         *string
	IsAvailable     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// MainPhotoURL is joined in by list/detail queries; not a column.
	MainPhotoURL *string
}

// Filter narrows the public catalog query.
type Filter struct {
	Search       string // matches brand or model, case-insensitive
	Transmission string
	FuelType     string
	CarClass     string
	Page         int
	PageSize     int
}
