package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominalEndWithEndTime(t *testing.T) {
	event := testEvent()
	event.EndTime = "22:30"

	end, err := event.NominalEnd()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 15, 22, 30, 0, 0, time.UTC), end)
}

func TestNominalEndDefaultsToEndOfDay(t *testing.T) {
	event := testEvent()
	event.EndTime = ""

	end, err := event.NominalEnd()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 15, 23, 59, 59, 0, time.UTC), end)
}

func TestTicketExpiryAddsGrace(t *testing.T) {
	event := testEvent()
	event.EndTime = "22:00"

	expiry, err := event.TicketExpiry()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 16, 22, 0, 0, 0, time.UTC), expiry)
}

func TestNominalEndRejectsBadDate(t *testing.T) {
	event := testEvent()
	event.Date = "15/06/2026"

	_, err := event.NominalEnd()
	assert.True(t, IsKind(err, KindValidation))
}

func TestRemainingCapacity(t *testing.T) {
	event := testEvent()
	event.Capacity = 100
	event.Attendees = 98
	assert.Equal(t, 2, event.RemainingCapacity())

	event.Attendees = 100
	assert.Equal(t, 0, event.RemainingCapacity())

	// Never negative even if the counter drifted.
	event.Attendees = 103
	assert.Equal(t, 0, event.RemainingCapacity())
}

func TestValidateEvent(t *testing.T) {
	event := testEvent()
	require.NoError(t, event.ValidateEvent())

	bad := testEvent()
	bad.Location = "Lagos"
	assert.True(t, IsKind(bad.ValidateEvent(), KindValidation))

	bad = testEvent()
	bad.Date = "June 15"
	assert.True(t, IsKind(bad.ValidateEvent(), KindValidation))

	bad = testEvent()
	bad.Title = "ab"
	assert.True(t, IsKind(bad.ValidateEvent(), KindValidation))
}
