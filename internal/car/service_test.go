package car

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCarRepo struct {
	cars map[string]*Car
	seq  int
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{cars: make(map[string]*Car)}
}

func (r *fakeCarRepo) Create(ctx context.Context, c *Car) error {
	r.seq++
	c.ID = fmt.Sprintf("car-%d", r.seq)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.cars[c.ID] = &cp
	return nil
}

func (r *fakeCarRepo) GetByID(ctx context.Context, id string) (*Car, error) {
	c, ok := r.cars[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCarRepo) List(ctx context.Context, filter Filter) ([]*Car, int, error) {
	var out []*Car
	for _, c := range r.cars {
		if c.IsAvailable {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *fakeCarRepo) Update(ctx context.Context, c *Car) error {
	stored, ok := r.cars[c.ID]
	if !ok {
		return ErrNotFound
	}
	cp := *c
	cp.UpdatedAt = time.Now()
	*stored = cp
	return nil
}

func validCreate() CreateRequest {
	return CreateRequest{
		Brand:        "Skoda",
		Model:        "Octavia",
		Year:         2021,
		LicensePlate: "5A2 1234",
		Seats:        5,
		Doors:        5,
		FuelType:     "petrol",
		Transmission: "manual",
		DailyPrice:   50,
	}
}

func TestCreateListing(t *testing.T) {
	ctx := context.Background()

	t.Run("new listing is available", func(t *testing.T) {
		svc := NewService(newFakeCarRepo())

		c, err := svc.Create(ctx, "owner-1", validCreate())
		require.NoError(t, err)
		assert.Equal(t, "owner-1", c.OwnerID)
		assert.True(t, c.IsAvailable)
		assert.NotEmpty(t, c.ID)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		svc := NewService(newFakeCarRepo())

		req := validCreate()
		req.DailyPrice = 0
		_, err := svc.Create(ctx, "owner-1", req)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("rejects implausible year", func(t *testing.T) {
		svc := NewService(newFakeCarRepo())

		req := validCreate()
		req.Year = 1900
		_, err := svc.Create(ctx, "owner-1", req)
		assert.ErrorIs(t, err, ErrInvalidYear)
	})
}

func TestUpdateListing(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeCarRepo())

	c, err := svc.Create(ctx, "owner-1", validCreate())
	require.NoError(t, err)

	t.Run("owner toggles availability", func(t *testing.T) {
		req := UpdateRequest{CreateRequest: validCreate(), IsAvailable: false}

		updated, err := svc.Update(ctx, c.ID, "owner-1", req)
		require.NoError(t, err)
		assert.False(t, updated.IsAvailable)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		req := UpdateRequest{CreateRequest: validCreate(), IsAvailable: true}

		_, err := svc.Update(ctx, c.ID, "intruder", req)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("unknown car", func(t *testing.T) {
		req := UpdateRequest{CreateRequest: validCreate(), IsAvailable: true}

		_, err := svc.Update(ctx, "car-404", "owner-1", req)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
