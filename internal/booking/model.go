package booking

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/renttogether/renttogether-backend/internal/pkg/apperror"
	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
)

// Status of a booking over its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"

	// StatusPaid is stamped by payment-flow writes. The state machine never
	// produces it; everywhere else it behaves like confirmed.
	StatusPaid Status = "paid"
)

// PaymentStatus tracks payment separately from the booking lifecycle.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// HardConflictStatuses is the set used to reject a new booking at submission
// time. A merely pending hold does not hard-block a competing submission.
var HardConflictStatuses = []Status{StatusConfirmed, StatusActive, StatusPaid}

// CalendarBlockedStatuses is the wider set used for calendar display, so an
// unconfirmed hold still shows as occupied in the date picker.
var CalendarBlockedStatuses = []Status{StatusPending, StatusConfirmed, StatusActive, StatusPaid}

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "booking not found")
	ErrCarNotFound        = apperror.New(http.StatusNotFound, "car not found")
	ErrVehicleUnavailable = apperror.New(http.StatusBadRequest, "car is not available for booking")
	ErrDateConflict       = apperror.New(http.StatusBadRequest, "dates already taken")
	ErrInvalidDateRange   = apperror.New(http.StatusBadRequest, "end date must not be before start date")
	ErrStartDatePast      = apperror.New(http.StatusBadRequest, "start date is in the past")
	ErrTotalDaysMismatch  = apperror.New(http.StatusBadRequest, "total days does not match the date range")
	ErrTotalPriceMismatch = apperror.New(http.StatusBadRequest, "total price does not match the rate")
	ErrReasonRequired     = apperror.New(http.StatusBadRequest, "cancellation reason is required")
	ErrInvalidTransition  = apperror.New(http.StatusBadRequest, "invalid booking status transition")
	ErrPermissionDenied   = apperror.New(http.StatusForbidden, "permission denied")
)

// ConflictError reports a date-range collision and names the bookings that
// occupy the requested slot. It unwraps to ErrDateConflict so handlers map it
// to the same client response.
type ConflictError struct {
	ConflictingIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("dates already taken by booking(s) %s", strings.Join(e.ConflictingIDs, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrDateConflict
}

// Booking is a reservation of a car for an inclusive date range.
type Booking struct {
	ID                 string // UUID
	CarID              string
	RenterID           string
	StartDate          dateonly.Date
	EndDate            dateonly.Date
	TotalDays          int
	TotalPrice         float64
	Status             Status
	PaymentStatus      PaymentStatus
	PaymentIntentID    *string
	CancellationReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined car fields.
	CarOwnerID      string
	CarBrand        string
	CarModel        string
	CarDailyPrice   float64
	CarMainPhotoURL *string

	// Joined renter contact, populated only for the owner's view.
	RenterFirstName string
	RenterLastName  string
	RenterEmail     string
	RenterPhone     string
}

// Range returns the booking's inclusive date range.
func (b *Booking) Range() (dateonly.Date, dateonly.Date) {
	return b.StartDate, b.EndDate
}

// IsTerminal reports whether the booking can no longer change state.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// statusStrings converts a status set for use as a query parameter.
func statusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
