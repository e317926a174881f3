package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusDisputed, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusPending, BookingStatusRefunded, false},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusDisputed, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusDisputed, BookingStatusRefunded, true},
		{BookingStatusDisputed, BookingStatusCancelled, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusRefunded, BookingStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.False(t, BookingStatusDisputed.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusRefunded.IsTerminal())
}

func TestBookingStatusCancellable(t *testing.T) {
	assert.True(t, BookingStatusPending.CanBeCancelled())
	assert.True(t, BookingStatusConfirmed.CanBeCancelled())
	assert.False(t, BookingStatusCompleted.CanBeCancelled())
	assert.False(t, BookingStatusCancelled.CanBeCancelled())
	assert.False(t, BookingStatusDisputed.CanBeCancelled())
	assert.False(t, BookingStatusRefunded.CanBeCancelled())
}

func TestPaymentStatusFinal(t *testing.T) {
	assert.True(t, PaymentStatusCompleted.IsFinal())
	assert.True(t, PaymentStatusFailed.IsFinal())
	assert.True(t, PaymentStatusCancelled.IsFinal())
	assert.False(t, PaymentStatusPending.IsFinal())
	assert.False(t, PaymentStatusProcessing.IsFinal())
	assert.False(t, PaymentStatusRefunded.IsFinal())
	assert.False(t, PaymentStatusPartiallyRefunded.IsFinal())
}
