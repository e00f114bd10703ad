package orders

import (
	"testing"
	"time"

	"emporia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = models.Actor{UserID: "u1", Username: "admin"}

func newOrder(status string) *models.Order {
	return &models.Order{
		OrderID: "o1",
		Status:  status,
		StatusDates: map[string]time.Time{
			StatusPending: time.Now().Add(-time.Hour),
		},
		StatusHistory: []models.StatusChange{
			{Status: StatusPending, ChangedBy: admin},
		},
	}
}

func TestTransitionTable(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusCancelled},
		{StatusPending, StatusHold},
		{StatusHold, StatusShipped},
		{StatusHold, StatusCancelled},
		{StatusShipped, StatusDelivered},
	}
	for _, tc := range allowed {
		o := newOrder(tc.from)
		err := Transition(o, tc.to, admin, "", time.Now())
		require.NoError(t, err, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.to, o.Status)
	}

	forbidden := []struct{ from, to string }{
		{StatusPending, StatusDelivered},
		{StatusHold, StatusDelivered},
		{StatusHold, StatusPending},
		{StatusShipped, StatusCancelled},
		{StatusShipped, StatusPending},
		{StatusCancelled, StatusShipped},
		{StatusCancelled, StatusPending},
		{StatusDelivered, StatusShipped},
		{StatusDelivered, StatusCancelled},
	}
	for _, tc := range forbidden {
		o := newOrder(tc.from)
		err := Transition(o, tc.to, admin, "", time.Now())
		require.Error(t, err, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.from, o.Status, "status must not change on rejection")
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	o := newOrder(StatusDelivered)
	err := Transition(o, StatusShipped, admin, "", time.Now())
	require.Error(t, err)
	assert.Equal(t, "Cannot transition from delivered to shipped", err.Error())
}

func TestTransitionRecordsHistoryAndDates(t *testing.T) {
	o := newOrder(StatusPending)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, Transition(o, StatusShipped, admin, "Left warehouse", now))

	assert.Equal(t, now, o.StatusDates[StatusShipped])
	require.Len(t, o.StatusHistory, 2)
	last := o.StatusHistory[1]
	assert.Equal(t, StatusShipped, last.Status)
	assert.Equal(t, admin, last.ChangedBy)
	assert.Equal(t, "Left warehouse", last.Notes)
	assert.Equal(t, now, last.Date)

	// Pending timestamp untouched.
	assert.NotEqual(t, now, o.StatusDates[StatusPending])
}

func TestTransitionNilStatusDates(t *testing.T) {
	o := &models.Order{Status: StatusPending}
	require.NoError(t, Transition(o, StatusHold, admin, "", time.Now()))
	assert.Contains(t, o.StatusDates, StatusHold)
}

func TestTransitionUnknownStatus(t *testing.T) {
	o := newOrder("limbo")
	err := Transition(o, StatusShipped, admin, "", time.Now())
	require.Error(t, err)
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(StatusPending))
	assert.True(t, CanCancel(StatusHold))
	assert.False(t, CanCancel(StatusShipped))
	assert.False(t, CanCancel(StatusDelivered))
	assert.False(t, CanCancel(StatusCancelled))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusHold, StatusShipped, StatusCancelled, StatusDelivered} {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("refunded"))
	assert.False(t, IsValidStatus(""))
}
