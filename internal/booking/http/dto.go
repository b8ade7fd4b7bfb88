package http

import (
	"time"

	"github.com/renttogether/renttogether-backend/internal/booking"
	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
)

// CreateBookingBody is the renter's submission. Dates travel as YYYY-MM-DD
// strings; total_days and total_price are optional echoes the engine verifies.
type CreateBookingBody struct {
	CarID           string  `json:"car_id" binding:"required,uuid"`
	StartDate       string  `json:"start_date" binding:"required"`
	EndDate         string  `json:"end_date" binding:"required"`
	TotalDays       int     `json:"total_days"`
	TotalPrice      float64 `json:"total_price"`
	PaymentIntentID *string `json:"payment_intent_id"`
}

// CancelBookingBody carries the mandatory cancellation reason.
type CancelBookingBody struct {
	CancellationReason string `json:"cancellation_reason" binding:"required"`
}

// CarSummary is the slice of car data embedded in booking responses.
type CarSummary struct {
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	DailyPrice   float64 `json:"daily_price"`
	MainPhotoURL *string `json:"main_photo_url,omitempty"`
}

// RenterSummary is the renter contact block shown only to the car's owner.
type RenterSummary struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// BookingResponse is the API shape of a booking.
type BookingResponse struct {
	ID                 string         `json:"id"`
	CarID              string         `json:"car_id"`
	RenterID           string         `json:"renter_id"`
	StartDate          dateonly.Date  `json:"start_date"`
	EndDate            dateonly.Date  `json:"end_date"`
	TotalDays          int            `json:"total_days"`
	TotalPrice         float64        `json:"total_price"`
	Status             string         `json:"status"`
	PaymentStatus      string         `json:"payment_status"`
	PaymentIntentID    *string        `json:"payment_intent_id,omitempty"`
	CancellationReason *string        `json:"cancellation_reason,omitempty"`
	Car                CarSummary     `json:"car"`
	Renter             *RenterSummary `json:"renter,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:                 b.ID,
		CarID:              b.CarID,
		RenterID:           b.RenterID,
		StartDate:          b.StartDate,
		EndDate:            b.EndDate,
		TotalDays:          b.TotalDays,
		TotalPrice:         b.TotalPrice,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentIntentID:    b.PaymentIntentID,
		CancellationReason: b.CancellationReason,
		Car: CarSummary{
			Brand:        b.CarBrand,
			Model:        b.CarModel,
			DailyPrice:   b.CarDailyPrice,
			MainPhotoURL: b.CarMainPhotoURL,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.RenterEmail != "" {
		resp.Renter = &RenterSummary{
			FirstName: b.RenterFirstName,
			LastName:  b.RenterLastName,
			Email:     b.RenterEmail,
			Phone:     b.RenterPhone,
		}
	}

	return resp
}

func newBookingResponses(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}

// CalendarBookingResponse is the booking shape on the public calendar feed.
// The feed is unauthenticated, so payment references and cancellation details
// stay off it.
type CalendarBookingResponse struct {
	ID            string        `json:"id"`
	CarID         string        `json:"car_id"`
	RenterID      string        `json:"renter_id"`
	StartDate     dateonly.Date `json:"start_date"`
	EndDate       dateonly.Date `json:"end_date"`
	TotalDays     int           `json:"total_days"`
	TotalPrice    float64       `json:"total_price"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

func NewCalendarBookingResponse(b *booking.Booking) CalendarBookingResponse {
	return CalendarBookingResponse{
		ID:            b.ID,
		CarID:         b.CarID,
		RenterID:      b.RenterID,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		TotalDays:     b.TotalDays,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		CreatedAt:     b.CreatedAt,
	}
}

func newCalendarBookingResponses(bookings []*booking.Booking) []CalendarBookingResponse {
	items := make([]CalendarBookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewCalendarBookingResponse(b)
	}
	return items
}

// AvailabilityResponse answers the read-path availability check.
type AvailabilityResponse struct {
	Available             bool     `json:"available"`
	ConflictingBookingIDs []string `json:"conflicting_booking_ids"`
}

// CalendarResponse lists the blocked days of one month.
type CalendarResponse struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	BlockedDates []dateonly.Date `json:"blocked_dates"`
}
