package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/renttogether/renttogether-backend/internal/car"
	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCarService serves listings from memory.
type fakeCarService struct {
	mu   sync.Mutex
	cars map[string]*car.Car
}

func newFakeCarService(cars ...*car.Car) *fakeCarService {
	s := &fakeCarService{cars: make(map[string]*car.Car)}
	for _, c := range cars {
		s.cars[c.ID] = c
	}
	return s
}

func (s *fakeCarService) Create(ctx context.Context, ownerID string, req car.CreateRequest) (*car.Car, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeCarService) GetByID(ctx context.Context, id string) (*car.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cars[id]
	if !ok {
		return nil, car.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCarService) List(ctx context.Context, filter car.Filter) ([]*car.Car, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (s *fakeCarService) Update(ctx context.Context, id, callerID string, req car.UpdateRequest) (*car.Car, error) {
	return nil, errors.New("not implemented")
}

// fakeRepo keeps bookings in memory. Create serializes the check-then-insert
// under one mutex, mirroring the per-vehicle row lock of the real store.
type fakeRepo struct {
	mu       sync.Mutex
	cars     *fakeCarService
	bookings map[string]*Booking
	seq      int
}

func newFakeRepo(cars *fakeCarService) *fakeRepo {
	return &fakeRepo{
		cars:     cars,
		bookings: make(map[string]*Booking),
	}
}

func (r *fakeRepo) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.cars.cars[b.CarID]
	if !ok {
		return ErrCarNotFound
	}
	if !v.IsAvailable {
		return ErrVehicleUnavailable
	}

	var existing []*Booking
	for _, eb := range r.bookings {
		if eb.CarID == b.CarID {
			existing = append(existing, eb)
		}
	}
	conflicts := FindConflicts(existing, b.StartDate, b.EndDate, HardConflictStatuses)
	if len(conflicts) > 0 {
		ids := make([]string, len(conflicts))
		for i, c := range conflicts {
			ids[i] = c.ID
		}
		return &ConflictError{ConflictingIDs: ids}
	}

	r.seq++
	b.ID = fmt.Sprintf("booking-%d", r.seq)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt

	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) Confirm(ctx context.Context, b *Booking, expected Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[b.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != expected {
		return ErrInvalidTransition
	}

	var others []*Booking
	for _, eb := range r.bookings {
		if eb.CarID == b.CarID && eb.ID != b.ID {
			others = append(others, eb)
		}
	}
	conflicts := FindConflicts(others, b.StartDate, b.EndDate, HardConflictStatuses)
	if len(conflicts) > 0 {
		ids := make([]string, len(conflicts))
		for i, c := range conflicts {
			ids[i] = c.ID
		}
		return &ConflictError{ConflictingIDs: ids}
	}

	stored.Status = b.Status
	stored.PaymentStatus = b.PaymentStatus
	stored.UpdatedAt = time.Now()
	b.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	if v, ok := r.cars.cars[b.CarID]; ok {
		cp.CarOwnerID = v.OwnerID
		cp.CarBrand = v.Brand
		cp.CarModel = v.Model
		cp.CarDailyPrice = v.DailyPrice
	}
	return &cp, nil
}

func (r *fakeRepo) ListByRenter(ctx context.Context, renterID string, page, pageSize int) ([]*Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, b := range r.bookings {
		if b.RenterID == renterID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *fakeRepo) ListByCar(ctx context.Context, carID string, statuses []Status) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, b := range r.bookings {
		if b.CarID != carID {
			continue
		}
		if len(statuses) > 0 && !statusIn(b.Status, statuses) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *fakeRepo) ListByCarWithRenter(ctx context.Context, carID string) ([]*Booking, error) {
	return r.ListByCar(ctx, carID, nil)
}

func (r *fakeRepo) FindConflicts(ctx context.Context, carID string, start, end dateonly.Date, statuses []Status) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var existing []*Booking
	for _, b := range r.bookings {
		if b.CarID == carID {
			existing = append(existing, b)
		}
	}
	conflicts := FindConflicts(existing, start, end, statuses)
	var ids []string
	for _, c := range conflicts {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, b *Booking, expected Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[b.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Status != expected {
		return ErrInvalidTransition
	}
	stored.Status = b.Status
	stored.PaymentStatus = b.PaymentStatus
	stored.CancellationReason = b.CancellationReason
	stored.UpdatedAt = time.Now()
	b.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeRepo) ListDueToStart(ctx context.Context, today dateonly.Date) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, b := range r.bookings {
		if statusIn(b.Status, []Status{StatusConfirmed, StatusPaid}) && !b.StartDate.After(today) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListDueToComplete(ctx context.Context, today dateonly.Date) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, b := range r.bookings {
		if b.Status == StatusActive && b.EndDate.Before(today) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

// newTestService wires a service over fakes, pinned to a fixed today.
func newTestService(today string, cars ...*car.Car) (Service, *fakeRepo) {
	carSvc := newFakeCarService(cars...)
	repo := newFakeRepo(carSvc)
	svc := NewService(repo, carSvc).(*service)
	svc.now = func() dateonly.Date { return day(today) }
	return svc, repo
}

func testCar() *car.Car {
	return &car.Car{
		ID:          "car-1",
		OwnerID:     "owner-1",
		Brand:       "Skoda",
		Model:       "Octavia",
		DailyPrice:  50,
		IsAvailable: true,
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("computes total days and price", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())

		b, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-07-01"),
			EndDate:   day("2024-07-05"),
		})
		require.NoError(t, err)

		assert.Equal(t, 5, b.TotalDays)
		assert.Equal(t, 250.0, b.TotalPrice)
		assert.Equal(t, StatusPending, b.Status)
		assert.Equal(t, PaymentPending, b.PaymentStatus)
	})

	t.Run("total days round-trips with the range", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())

		b, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-07-01"),
			EndDate:   day("2024-07-05"),
			TotalDays: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, b.StartDate.DaysUntil(b.EndDate)+1, b.TotalDays)
	})

	t.Run("single day booking is valid", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())

		b, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-06-10"),
			EndDate:   day("2024-06-10"),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, b.TotalDays)

		blocked, err := svc.Calendar(ctx, "car-1", 2024, time.June)
		require.NoError(t, err)
		require.Len(t, blocked, 1)
		assert.Equal(t, "2024-06-10", blocked[0].String())
	})

	t.Run("rejects end before start", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())

		_, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-07-05"),
			EndDate:   day("2024-07-01"),
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("rejects past start date", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())

		_, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-05-30"),
			EndDate:   day("2024-06-02"),
		})
		assert.ErrorIs(t, err, ErrStartDatePast)
	})

	t.Run("rejects mismatched total days", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())

		_, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-07-01"),
			EndDate:   day("2024-07-05"),
			TotalDays: 4,
		})
		assert.ErrorIs(t, err, ErrTotalDaysMismatch)
	})

	t.Run("rejects mismatched total price", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())

		_, err := svc.Create(ctx, CreateRequest{
			CarID:      "car-1",
			RenterID:   "renter-1",
			StartDate:  day("2024-07-01"),
			EndDate:    day("2024-07-05"),
			TotalPrice: 123.45,
		})
		assert.ErrorIs(t, err, ErrTotalPriceMismatch)
	})

	t.Run("rejects unknown car", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())

		_, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-404",
			RenterID:  "renter-1",
			StartDate: day("2024-07-01"),
			EndDate:   day("2024-07-05"),
		})
		assert.ErrorIs(t, err, ErrCarNotFound)
	})

	t.Run("rejects unavailable car", func(t *testing.T) {
		pulled := testCar()
		pulled.IsAvailable = false
		svc, _ := newTestService("2024-06-01", pulled)

		_, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-07-01"),
			EndDate:   day("2024-07-05"),
		})
		assert.ErrorIs(t, err, ErrVehicleUnavailable)
	})
}

func TestCreateBookingConflicts(t *testing.T) {
	ctx := context.Background()

	// A confirmed booking for [2024-07-01, 2024-07-05].
	setup := func(t *testing.T) (Service, *fakeRepo) {
		svc, repo := newTestService("2024-06-01", testCar())
		b, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-07-01"),
			EndDate:   day("2024-07-05"),
		})
		require.NoError(t, err)
		_, err = svc.Confirm(ctx, b.ID, "renter-1")
		require.NoError(t, err)
		return svc, repo
	}

	t.Run("touching boundary conflicts", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-2",
			StartDate: day("2024-07-05"),
			EndDate:   day("2024-07-08"),
		})
		require.ErrorIs(t, err, ErrDateConflict)

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Len(t, conflict.ConflictingIDs, 1)
	})

	t.Run("adjacent range is accepted", func(t *testing.T) {
		svc, _ := setup(t)

		_, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-2",
			StartDate: day("2024-07-06"),
			EndDate:   day("2024-07-08"),
		})
		assert.NoError(t, err)
	})

	t.Run("pending hold does not hard-block", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())

		_, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-07-01"),
			EndDate:   day("2024-07-05"),
		})
		require.NoError(t, err)

		// Still pending, so a second submission for the same slot wins too.
		_, err = svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-2",
			StartDate: day("2024-07-03"),
			EndDate:   day("2024-07-06"),
		})
		assert.NoError(t, err)
	})

	t.Run("check availability agrees with create", func(t *testing.T) {
		svc, _ := setup(t)

		taken, err := svc.CheckAvailability(ctx, "car-1", day("2024-07-04"), day("2024-07-06"))
		require.NoError(t, err)
		assert.False(t, taken.Available)
		assert.NotEmpty(t, taken.ConflictingIDs)

		_, err = svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-2",
			StartDate: day("2024-07-04"),
			EndDate:   day("2024-07-06"),
		})
		assert.ErrorIs(t, err, ErrDateConflict)

		free, err := svc.CheckAvailability(ctx, "car-1", day("2024-07-10"), day("2024-07-12"))
		require.NoError(t, err)
		assert.True(t, free.Available)

		_, err = svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-2",
			StartDate: day("2024-07-10"),
			EndDate:   day("2024-07-12"),
		})
		assert.NoError(t, err)
	})
}

func TestConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService("2024-06-01", testCar())

	const workers = 8
	results := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := svc.Create(ctx, CreateRequest{
				CarID:     "car-1",
				RenterID:  fmt.Sprintf("renter-%d", i),
				StartDate: day("2024-08-01"),
				EndDate:   day("2024-08-03"),
			})
			if err == nil {
				// Promote immediately so the slot hard-blocks the rest.
				_, err = svc.Confirm(ctx, b.ID, fmt.Sprintf("renter-%d", i))
			}
			results[i] = err
		}(i)
	}
	wg.Wait()

	var winners, losers int
	for _, err := range results {
		if err == nil {
			winners++
		} else if errors.Is(err, ErrDateConflict) {
			losers++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Pending holds do not hard-block, so every submission may land; the
	// confirm step is where the slot is won, and exactly one can win it.
	assert.Equal(t, 1, winners)
	assert.Equal(t, workers-1, losers)

	var confirmed []*Booking
	for _, b := range repo.bookings {
		if b.Status == StatusConfirmed {
			confirmed = append(confirmed, b)
		}
	}
	for i := 0; i < len(confirmed); i++ {
		for j := i + 1; j < len(confirmed); j++ {
			assert.False(t, Overlaps(
				confirmed[i].StartDate, confirmed[i].EndDate,
				confirmed[j].StartDate, confirmed[j].EndDate,
			), "confirmed bookings %s and %s overlap", confirmed[i].ID, confirmed[j].ID)
		}
	}
}

func TestBookingLifecycle(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, svc Service) *Booking {
		b, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-07-01"),
			EndDate:   day("2024-07-05"),
		})
		require.NoError(t, err)
		return b
	}

	t.Run("confirm then cancel", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())
		b := create(t, svc)

		confirmed, err := svc.Confirm(ctx, b.ID, "renter-1")
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, confirmed.Status)
		assert.Equal(t, PaymentPaid, confirmed.PaymentStatus)

		cancelled, err := svc.Cancel(ctx, b.ID, "renter-1", false, "change of plans")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)
		require.NotNil(t, cancelled.CancellationReason)
		assert.Equal(t, "change of plans", *cancelled.CancellationReason)
	})

	t.Run("second cancel is an invalid transition", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())
		b := create(t, svc)

		_, err := svc.Cancel(ctx, b.ID, "renter-1", false, "first")
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, b.ID, "renter-1", false, "second")
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// The stored reason is untouched by the rejected second attempt.
		stored, err := svc.GetByID(ctx, b.ID, "renter-1", false)
		require.NoError(t, err)
		assert.Equal(t, "first", *stored.CancellationReason)
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())
		b := create(t, svc)

		_, err := svc.Cancel(ctx, b.ID, "renter-1", false, "   ")
		assert.ErrorIs(t, err, ErrReasonRequired)
	})

	t.Run("only the renter may confirm or cancel", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())
		b := create(t, svc)

		_, err := svc.Confirm(ctx, b.ID, "someone-else")
		assert.ErrorIs(t, err, ErrPermissionDenied)

		_, err = svc.Cancel(ctx, b.ID, "someone-else", false, "nope")
		assert.ErrorIs(t, err, ErrPermissionDenied)

		// Admin override applies to cancellation.
		_, err = svc.Cancel(ctx, b.ID, "someone-else", true, "fraud review")
		assert.NoError(t, err)
	})

	t.Run("access control on reads", func(t *testing.T) {
		svc, _ := newTestService("2024-06-01", testCar())
		b := create(t, svc)

		_, err := svc.GetByID(ctx, b.ID, "renter-1", false)
		assert.NoError(t, err)

		_, err = svc.GetByID(ctx, b.ID, "owner-1", false)
		assert.NoError(t, err)

		_, err = svc.GetByID(ctx, b.ID, "stranger", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		_, err = svc.GetByID(ctx, b.ID, "stranger", true)
		assert.NoError(t, err)
	})
}

// cancelAfterReadRepo flips a booking to cancelled right after the service
// reads it, modelling a cancel that lands between the read and the write.
type cancelAfterReadRepo struct {
	*fakeRepo
	targetID string
}

func (r *cancelAfterReadRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	b, err := r.fakeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if id == r.targetID {
		r.mu.Lock()
		reason := "changed my mind"
		r.bookings[id].Status = StatusCancelled
		r.bookings[id].CancellationReason = &reason
		r.mu.Unlock()
	}
	return b, nil
}

// cancelAfterListRepo cancels every listed booking after the sweep reads it.
type cancelAfterListRepo struct {
	*fakeRepo
}

func (r *cancelAfterListRepo) ListDueToStart(ctx context.Context, today dateonly.Date) ([]*Booking, error) {
	due, err := r.fakeRepo.ListDueToStart(ctx, today)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	reason := "cancelled mid-sweep"
	for _, b := range due {
		r.bookings[b.ID].Status = StatusCancelled
		r.bookings[b.ID].CancellationReason = &reason
	}
	r.mu.Unlock()
	return due, nil
}

func TestTransitionRaces(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm loses to an interleaved cancel", func(t *testing.T) {
		carSvc := newFakeCarService(testCar())
		base := newFakeRepo(carSvc)
		repo := &cancelAfterReadRepo{fakeRepo: base}
		svc := NewService(repo, carSvc).(*service)
		svc.now = func() dateonly.Date { return day("2024-06-01") }

		b, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-07-01"),
			EndDate:   day("2024-07-05"),
		})
		require.NoError(t, err)
		repo.targetID = b.ID

		_, err = svc.Confirm(ctx, b.ID, "renter-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// The cancel sticks; the confirm must not resurrect the booking.
		stored := base.bookings[b.ID]
		assert.Equal(t, StatusCancelled, stored.Status)
		assert.Equal(t, PaymentPending, stored.PaymentStatus)
		require.NotNil(t, stored.CancellationReason)
		assert.Equal(t, "changed my mind", *stored.CancellationReason)
	})

	t.Run("sweep skips a booking cancelled after listing", func(t *testing.T) {
		carSvc := newFakeCarService(testCar())
		base := newFakeRepo(carSvc)
		repo := &cancelAfterListRepo{fakeRepo: base}
		svc := NewService(repo, carSvc).(*service)
		svc.now = func() dateonly.Date { return day("2024-06-01") }

		b, err := svc.Create(ctx, CreateRequest{
			CarID:     "car-1",
			RenterID:  "renter-1",
			StartDate: day("2024-06-01"),
			EndDate:   day("2024-06-03"),
		})
		require.NoError(t, err)
		_, err = svc.Confirm(ctx, b.ID, "renter-1")
		require.NoError(t, err)

		activated, err := svc.ActivateDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, activated)
		assert.Equal(t, StatusCancelled, base.bookings[b.ID].Status)
	})
}

func TestCalendarProjection(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService("2024-09-01", testCar())

	// A pending hold must still block calendar days.
	_, err := svc.Create(ctx, CreateRequest{
		CarID:     "car-1",
		RenterID:  "renter-1",
		StartDate: day("2024-09-10"),
		EndDate:   day("2024-09-12"),
	})
	require.NoError(t, err)

	blocked, err := svc.Calendar(ctx, "car-1", 2024, time.September)
	require.NoError(t, err)
	require.Len(t, blocked, 3)
	assert.Equal(t, "2024-09-10", blocked[0].String())
	assert.Equal(t, "2024-09-12", blocked[2].String())

	t.Run("invalid month rejected", func(t *testing.T) {
		_, err := svc.Calendar(ctx, "car-1", 2024, time.Month(13))
		assert.Error(t, err)
	})

	t.Run("unknown car rejected", func(t *testing.T) {
		_, err := svc.Calendar(ctx, "car-404", 2024, time.September)
		assert.ErrorIs(t, err, ErrCarNotFound)
	})
}

func TestLifecycleSweeps(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService("2024-06-01", testCar())

	// Confirmed booking whose rental starts today.
	b1, err := svc.Create(ctx, CreateRequest{
		CarID: "car-1", RenterID: "renter-1",
		StartDate: day("2024-06-01"), EndDate: day("2024-06-03"),
	})
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, b1.ID, "renter-1")
	require.NoError(t, err)

	// Confirmed booking still in the future; must not activate.
	b2, err := svc.Create(ctx, CreateRequest{
		CarID: "car-1", RenterID: "renter-2",
		StartDate: day("2024-06-10"), EndDate: day("2024-06-12"),
	})
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, b2.ID, "renter-2")
	require.NoError(t, err)

	activated, err := svc.ActivateDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, activated)
	assert.Equal(t, StatusActive, repo.bookings[b1.ID].Status)
	assert.Equal(t, StatusConfirmed, repo.bookings[b2.ID].Status)

	// Move time past b1's end date; the active rental completes.
	svc.(*service).now = func() dateonly.Date { return day("2024-06-04") }

	completed, err := svc.CompleteOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
	assert.Equal(t, StatusCompleted, repo.bookings[b1.ID].Status)
}
