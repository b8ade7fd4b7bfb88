package booking

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/renttogether/renttogether-backend/internal/car"
	"github.com/renttogether/renttogether-backend/internal/pkg/apperror"
	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
)

// CreateRequest carries a renter's submission for a new booking. TotalDays
// and TotalPrice are optional client echoes; the service recomputes both and
// rejects mismatches.
type CreateRequest struct {
	CarID           string
	RenterID        string
	StartDate       dateonly.Date
	EndDate         dateonly.Date
	TotalDays       int
	TotalPrice      float64
	PaymentIntentID *string
}

// Availability is the outcome of a read-path availability check.
type Availability struct {
	Available      bool
	ConflictingIDs []string
}

// Service defines the booking engine's business logic.
type Service interface {
	CheckAvailability(ctx context.Context, carID string, start, end dateonly.Date) (Availability, error)
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id, callerID string, isAdmin bool) (*Booking, error)
	ListMine(ctx context.Context, renterID string, page, pageSize int) ([]*Booking, int, error)
	CalendarFeed(ctx context.Context, carID string) ([]*Booking, error)
	ListForOwner(ctx context.Context, carID, callerID string, isAdmin bool) ([]*Booking, error)
	Confirm(ctx context.Context, id, callerID string) (*Booking, error)
	Cancel(ctx context.Context, id, callerID string, isAdmin bool, reason string) (*Booking, error)
	Delete(ctx context.Context, id, callerID string, isAdmin bool) error
	Calendar(ctx context.Context, carID string, year int, month time.Month) ([]dateonly.Date, error)

	// Lifecycle sweeps driven by the scheduler.
	ActivateDue(ctx context.Context) (int, error)
	CompleteOverdue(ctx context.Context) (int, error)
}

type service struct {
	repo Repository
	cars car.Service

	// now is swappable in tests.
	now func() dateonly.Date
}

func NewService(repo Repository, cars car.Service) Service {
	return &service{
		repo: repo,
		cars: cars,
		now:  dateonly.Today,
	}
}

var errInvalidMonth = apperror.New(http.StatusBadRequest, "invalid year or month")

func (s *service) CheckAvailability(ctx context.Context, carID string, start, end dateonly.Date) (Availability, error) {
	if err := validateRange(start, end); err != nil {
		return Availability{}, err
	}
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		if errors.Is(err, car.ErrNotFound) {
			return Availability{}, ErrCarNotFound
		}
		return Availability{}, err
	}

	ids, err := s.repo.FindConflicts(ctx, carID, start, end, HardConflictStatuses)
	if err != nil {
		return Availability{}, err
	}

	return Availability{
		Available:      len(ids) == 0,
		ConflictingIDs: ids,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if req.StartDate.Before(s.now()) {
		return nil, ErrStartDatePast
	}

	v, err := s.cars.GetByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if !v.IsAvailable {
		return nil, ErrVehicleUnavailable
	}

	days := req.StartDate.DaysUntil(req.EndDate) + 1
	if req.TotalDays != 0 && req.TotalDays != days {
		return nil, ErrTotalDaysMismatch
	}

	price := float64(days) * v.DailyPrice
	if req.TotalPrice != 0 {
		if math.Abs(req.TotalPrice-price) > 0.01 {
			return nil, ErrTotalPriceMismatch
		}
		price = req.TotalPrice
	}

	b := &Booking{
		CarID:           req.CarID,
		RenterID:        req.RenterID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalDays:       days,
		TotalPrice:      price,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentIntentID: req.PaymentIntentID,
	}

	// The repository redoes the availability check inside the locking
	// transaction; the outcome there is authoritative.
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	b.CarOwnerID = v.OwnerID
	b.CarBrand = v.Brand
	b.CarModel = v.Model
	b.CarDailyPrice = v.DailyPrice
	b.CarMainPhotoURL = v.MainPhotoURL

	return b, nil
}

func (s *service) GetByID(ctx context.Context, id, callerID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && callerID != b.RenterID && callerID != b.CarOwnerID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) ListMine(ctx context.Context, renterID string, page, pageSize int) ([]*Booking, int, error) {
	return s.repo.ListByRenter(ctx, renterID, page, pageSize)
}

func (s *service) CalendarFeed(ctx context.Context, carID string) ([]*Booking, error) {
	if _, err := s.cars.GetByID(ctx, carID); err != nil {
		if errors.Is(err, car.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return s.repo.ListByCar(ctx, carID, CalendarBlockedStatuses)
}

func (s *service) ListForOwner(ctx context.Context, carID, callerID string, isAdmin bool) ([]*Booking, error) {
	v, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if !isAdmin && v.OwnerID != callerID {
		return nil, ErrPermissionDenied
	}
	return s.repo.ListByCarWithRenter(ctx, carID)
}

func (s *service) Confirm(ctx context.Context, id, callerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.RenterID != callerID {
		return nil, ErrPermissionDenied
	}

	prev := b.Status
	next, err := NextStatus(prev, EventConfirmPayment)
	if err != nil {
		return nil, err
	}

	b.Status = next
	b.PaymentStatus = PaymentPaid
	// Confirmation is when a hold turns into a hard block, so the slot is
	// re-checked under the car lock; a competing booking that got confirmed
	// first makes this one lose with a conflict. Guarding on the prior
	// status keeps a cancel that landed after the read above from being
	// overwritten.
	if err := s.repo.Confirm(ctx, b, prev); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id, callerID string, isAdmin bool, reason string) (*Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.RenterID != callerID {
		return nil, ErrPermissionDenied
	}

	prev := b.Status
	next, err := NextStatus(prev, EventCancel)
	if err != nil {
		return nil, err
	}

	b.Status = next
	b.CancellationReason = &reason
	if err := s.repo.UpdateStatus(ctx, b, prev); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id, callerID string, isAdmin bool) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && b.RenterID != callerID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Calendar(ctx context.Context, carID string, year int, month time.Month) ([]dateonly.Date, error) {
	if year < 2000 || year > 2200 || month < time.January || month > time.December {
		return nil, errInvalidMonth
	}

	bookings, err := s.CalendarFeed(ctx, carID)
	if err != nil {
		return nil, err
	}

	return BlockedDays(bookings, year, month, s.now()), nil
}

func (s *service) ActivateDue(ctx context.Context) (int, error) {
	due, err := s.repo.ListDueToStart(ctx, s.now())
	if err != nil {
		return 0, err
	}

	var activated int
	for _, b := range due {
		prev := b.Status
		next, err := NextStatus(prev, EventBeginRental)
		if err != nil {
			continue
		}
		b.Status = next
		if err := s.repo.UpdateStatus(ctx, b, prev); err != nil {
			// A booking cancelled since the listing just drops out of the sweep.
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return activated, err
		}
		activated++
	}
	return activated, nil
}

func (s *service) CompleteOverdue(ctx context.Context) (int, error) {
	overdue, err := s.repo.ListDueToComplete(ctx, s.now())
	if err != nil {
		return 0, err
	}

	var completed int
	for _, b := range overdue {
		prev := b.Status
		next, err := NextStatus(prev, EventComplete)
		if err != nil {
			continue
		}
		b.Status = next
		if err := s.repo.UpdateStatus(ctx, b, prev); err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return completed, err
		}
		completed++
	}
	return completed, nil
}

func validateRange(start, end dateonly.Date) error {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return ErrInvalidDateRange
	}
	return nil
}
