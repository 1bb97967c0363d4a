package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to accepted", StatusPending, StatusAccepted, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"accepted to completed", StatusAccepted, StatusCompleted, true},
		{"accepted to cancelled", StatusAccepted, StatusCancelled, true},
		{"accepted to rejected", StatusAccepted, StatusRejected, false},
		{"accepted to pending", StatusAccepted, StatusPending, false},
		{"rejected to anything", StatusRejected, StatusAccepted, false},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"cancelled to accepted", StatusCancelled, StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, StatusPending.CanBeCancelled())
	assert.True(t, StatusAccepted.CanBeCancelled())
	assert.False(t, StatusRejected.CanBeCancelled())
	assert.False(t, StatusCompleted.CanBeCancelled())
	assert.False(t, StatusCancelled.CanBeCancelled())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("accepted")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, status)

	_, err = ParseBookingStatus("in_progress")
	assert.Error(t, err)
}

func TestParsePaymentStatus(t *testing.T) {
	status, err := ParsePaymentStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, status)

	_, err = ParsePaymentStatus("refunded")
	assert.Error(t, err)
}
