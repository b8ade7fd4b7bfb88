package dateonly

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("plain date", func(t *testing.T) {
		d, err := Parse("2024-06-10")
		require.NoError(t, err)
		assert.Equal(t, 2024, d.Year())
		assert.Equal(t, time.June, d.Month())
		assert.Equal(t, 10, d.Day())
	})

	t.Run("rfc3339 fallback truncates to the day", func(t *testing.T) {
		d, err := Parse("2024-06-10T15:04:05Z")
		require.NoError(t, err)
		assert.Equal(t, "2024-06-10", d.String())
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := Parse("10/06/2024")
		assert.Error(t, err)
	})
}

func TestDaysUntil(t *testing.T) {
	start := New(2024, time.July, 1)

	assert.Equal(t, 0, start.DaysUntil(start))
	assert.Equal(t, 4, start.DaysUntil(New(2024, time.July, 5)))
	assert.Equal(t, -1, start.DaysUntil(New(2024, time.June, 30)))

	// Across a month boundary.
	assert.Equal(t, 31, start.DaysUntil(New(2024, time.August, 1)))
}

func TestAddDays(t *testing.T) {
	d := New(2024, time.February, 28)
	assert.Equal(t, "2024-02-29", d.AddDays(1).String()) // leap year
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-27", d.AddDays(-1).String())
}

func TestComparisons(t *testing.T) {
	a := New(2024, time.July, 1)
	b := New(2024, time.July, 2)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(New(2024, time.July, 1)))
	assert.False(t, a.Equal(b))
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	out, err := json.Marshal(payload{Date: New(2024, time.September, 10)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-09-10"}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-09-10"}`), &in))
	assert.True(t, in.Date.Equal(New(2024, time.September, 10)))
}

func TestZeroValue(t *testing.T) {
	var d Date
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `""`, string(out))
}
