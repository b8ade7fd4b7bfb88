package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		event   Event
		want    Status
		wantErr bool
	}{
		{"pending confirms", StatusPending, EventConfirmPayment, StatusConfirmed, false},
		{"pending cancels", StatusPending, EventCancel, StatusCancelled, false},
		{"pending cannot begin rental", StatusPending, EventBeginRental, "", true},
		{"pending cannot complete", StatusPending, EventComplete, "", true},

		{"confirmed cancels", StatusConfirmed, EventCancel, StatusCancelled, false},
		{"confirmed begins rental", StatusConfirmed, EventBeginRental, StatusActive, false},
		{"confirmed cannot reconfirm", StatusConfirmed, EventConfirmPayment, "", true},
		{"confirmed cannot complete", StatusConfirmed, EventComplete, "", true},

		{"active completes", StatusActive, EventComplete, StatusCompleted, false},
		{"active cannot cancel", StatusActive, EventCancel, "", true},
		{"active cannot begin again", StatusActive, EventBeginRental, "", true},

		{"paid behaves like confirmed for cancel", StatusPaid, EventCancel, StatusCancelled, false},
		{"paid behaves like confirmed for begin", StatusPaid, EventBeginRental, StatusActive, false},

		{"completed is terminal", StatusCompleted, EventCancel, "", true},
		{"cancelled is terminal", StatusCancelled, EventConfirmPayment, "", true},
		{"cancelled rejects cancel again", StatusCancelled, EventCancel, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextStatus(tc.from, tc.event)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Booking{Status: StatusCancelled}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: StatusActive}).IsTerminal())
}
