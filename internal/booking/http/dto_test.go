package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/renttogether/renttogether-backend/internal/booking"
	"github.com/renttogether/renttogether-backend/internal/pkg/dateonly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarBookingResponseOmitsPrivateFields(t *testing.T) {
	intent := "pi_3abc"
	reason := "owner dispute"
	b := &booking.Booking{
		ID:                 "booking-1",
		CarID:              "car-1",
		RenterID:           "renter-1",
		StartDate:          mustDate(t, "2024-07-01"),
		EndDate:            mustDate(t, "2024-07-05"),
		TotalDays:          5,
		TotalPrice:         250,
		Status:             booking.StatusConfirmed,
		PaymentStatus:      booking.PaymentPaid,
		PaymentIntentID:    &intent,
		CancellationReason: &reason,
		CreatedAt:          time.Now(),
	}

	raw, err := json.Marshal(NewCalendarBookingResponse(b))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Equal(t, "paid", fields["payment_status"])
	assert.NotContains(t, fields, "payment_intent_id")
	assert.NotContains(t, fields, "cancellation_reason")
	assert.NotContains(t, fields, "renter")
}

func mustDate(t *testing.T, s string) dateonly.Date {
	t.Helper()
	d, err := dateonly.Parse(s)
	require.NoError(t, err)
	return d
}
