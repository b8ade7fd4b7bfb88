package http

import (
	"time"

	"github.com/renttogether/renttogether-backend/internal/car"
)

// CarBody is the payload shared by create and update requests.
type CarBody struct {
	Brand           string   `json:"brand" binding:"required"`
	Model           string   `json:"model" binding:"required"`
	Year            int      `json:"year" binding:"required"`
	LicensePlate    string   `json:"license_plate" binding:"required"`
	VIN             *string  `json:"vin"`
	Color           *string  `json:"color"`
	Category        *string  `json:"category"`
	CarClass        *string  `json:"car_class"`
	Seats           int      `json:"seats" binding:"required,min=1,max=12"`
	Doors           int      `json:"doors" binding:"required,min=1,max=6"`
	FuelType        string   `json:"fuel_type" binding:"required"`
	Transmission    string   `json:"transmission" binding:"required"`
	FuelConsumption *float64 `json:"fuel_consumption"`
	EngineCapacity  *float64 `json:"engine_capacity"`
	Horsepower      *int     `json:"horsepower"`
	Description     *string  `json:"description"`
	DailyPrice      float64  `json:"daily_price" binding:"required,gt=0"`
	Address         *string  `json:"address"`
}

// UpdateCarBody adds the availability toggle owners use to pull a listing.
type UpdateCarBody struct {
	CarBody
	IsAvailable *bool `json:"is_available" binding:"required"`
}

func (b CarBody) toCreateRequest() car.CreateRequest {
	return car.CreateRequest{
		Brand:           b.Brand,
		Model:           b.Model,
		Year:            b.Year,
		LicensePlate:    b.LicensePlate,
		VIN:             b.VIN,
		Color:           b.Color,
		Category:        b.Category,
		CarClass:        b.CarClass,
		Seats:           b.Seats,
		Doors:           b.Doors,
		FuelType:        b.FuelType,
		Transmission:    b.Transmission,
		FuelConsumption: b.FuelConsumption,
		EngineCapacity:  b.EngineCapacity,
		Horsepower:      b.Horsepower,
		Description:     b.Description,
		DailyPrice:      b.DailyPrice,
		Address:         b.Address,
	}
}

// CarResponse is the API shape of a vehicle listing.
type CarResponse struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	LicensePlate    string    `json:"license_plate"`
	VIN             *string   `json:"vin,omitempty"`
	Color           *string   `json:"color,omitempty"`
	Category        *string   `json:"category,omitempty"`
	CarClass        *string   `json:"car_class,omitempty"`
	Seats           int       `json:"seats"`
	Doors           int       `json:"doors"`
	FuelType        string    `json:"fuel_type"`
	Transmission    string    `json:"transmission"`
	FuelConsumption *float64  `json:"fuel_consumption,omitempty"`
	EngineCapacity  *float64  `json:"engine_capacity,omitempty"`
	Horsepower      *int      `json:"horsepower,omitempty"`
	Description     *string   `json:"description,omitempty"`
	DailyPrice      float64   `json:"daily_price"`
	Address         *string   `json:"address,omitempty"`
	IsAvailable     bool      `json:"is_available"`
	MainPhotoURL    *string   `json:"main_photo_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewCarResponse(c *car.Car) CarResponse {
	return CarResponse{
		ID:              c.ID,
		OwnerID:         c.OwnerID,
		Brand:           c.Brand,
		Model:           c.Model,
		Year:            c.Year,
		LicensePlate:    c.LicensePlate,
		VIN:             c.VIN,
		Color:           c.Color,
		Category:        c.Category,
		CarClass:        c.CarClass,
		Seats:           c.Seats,
		Doors:           c.Doors,
		FuelType:        c.FuelType,
		Transmission:    c.Transmission,
		FuelConsumption: c.FuelConsumption,
		EngineCapacity:  c.EngineCapacity,
		Horsepower:      c.Horsepower,
		Description:     c.Description,
		DailyPrice:      c.DailyPrice,
		Address:         c.Address,
		IsAvailable:     c.IsAvailable,
		MainPhotoURL:    c.MainPhotoURL,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
