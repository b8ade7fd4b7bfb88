package car

import (
	"context"
	"strings"
	"time"
)

// CreateRequest carries the listing fields an owner submits for a new car.
type CreateRequest struct {
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
}

// UpdateRequest mirrors CreateRequest plus the availability toggle.
type UpdateRequest struct {
	CreateRequest
	IsAvailable bool
}

// Service defines business logic for vehicle listings.
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (*Car, error)
	GetByID(ctx context.Context, id string) (*Car, error)
	List(ctx context.Context, filter Filter) ([]*Car, int, error)
	Update(ctx context.Context, id, callerID string, req UpdateRequest) (*Car, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Car, error) {
	if err := validateListing(req); err != nil {
		return nil, err
	}

	c := &Car{
		OwnerID:         ownerID,
		Brand:           strings.TrimSpace(req.Brand),
		Model:           strings.TrimSpace(req.Model),
		Year:            req.Year,
		LicensePlate:    strings.TrimSpace(req.LicensePlate),
		VIN:             req.VIN,
		Color:           req.Color,
		Category:        req.Category,
		CarClass:        req.CarClass,
		Seats:           req.Seats,
		Doors:           req.Doors,
		FuelType:        req.FuelType,
		Transmission:    req.Transmission,
		FuelConsumption: req.FuelConsumption,
		EngineCapacity:  req.EngineCapacity,
		Horsepower:      req.Horsepower,
		Description:     req.Description,
		DailyPrice:      req.DailyPrice,
		Address:         req.Address,
		IsAvailable:     true,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Car, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Car, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id, callerID string, req UpdateRequest) (*Car, error) {
	if err := validateListing(req.CreateRequest); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}

	c.Brand = strings.TrimSpace(req.Brand)
	c.Model = strings.TrimSpace(req.Model)
	c.Year = req.Year
	c.LicensePlate = strings.TrimSpace(req.LicensePlate)
	c.VIN = req.VIN
	c.Color = req.Color
	c.Category = req.Category
	c.CarClass = req.CarClass
	c.Seats = req.Seats
	c.Doors = req.Doors
	c.FuelType = req.FuelType
	c.Transmission = req.Transmission
	c.FuelConsumption = req.FuelConsumption
	c.EngineCapacity = req.EngineCapacity
	c.Horsepower = req.Horsepower
	c.Description = req.Description
	c.DailyPrice = req.DailyPrice
	c.Address = req.Address
	c.IsAvailable = req.IsAvailable

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func validateListing(req CreateRequest) error {
	if req.DailyPrice <= 0 {
		return ErrInvalidPrice
	}
	if req.Year < 1950 || req.Year > time.Now().Year()+1 {
		return ErrInvalidYear
	}
	return nil
}
