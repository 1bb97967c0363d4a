package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servilink/service-booking/internal/domain"
	"github.com/servilink/service-booking/internal/domain/identity"
)

var (
	testUser     = identity.User{ID: uuid.New(), Name: "Asha"}
	testProvider = identity.Provider{ID: uuid.New(), Name: "Ravi Plumbing"}
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBooking(
		testUser,
		testProvider.ID,
		uuid.New(),
		500,
		400,
		"12 MG Road, Indiranagar",
		"2026-09-03",
		"10:00",
		"gate code 4411",
	)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	bk := newTestBooking(t)

	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, 500.0, bk.BasePrice())
	assert.Equal(t, 400.0, bk.ProposedPrice())
	assert.Nil(t, bk.FinalPrice())
	assert.Equal(t, PaymentPending, bk.PaymentStatus())
	assert.Nil(t, bk.Rating())
	assert.Nil(t, bk.CompletedAt())
	assert.Equal(t, int64(1), bk.Version())
}

func TestNewBookingValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func() (*Booking, error)
	}{
		{"zero proposed price", func() (*Booking, error) {
			return NewBooking(testUser, testProvider.ID, uuid.New(), 500, 0, "addr", "2026-09-03", "10:00", "")
		}},
		{"missing address", func() (*Booking, error) {
			return NewBooking(testUser, testProvider.ID, uuid.New(), 500, 400, "", "2026-09-03", "10:00", "")
		}},
		{"missing date", func() (*Booking, error) {
			return NewBooking(testUser, testProvider.ID, uuid.New(), 500, 400, "addr", "", "10:00", "")
		}},
		{"missing time", func() (*Booking, error) {
			return NewBooking(testUser, testProvider.ID, uuid.New(), 500, 400, "addr", "2026-09-03", "", "")
		}},
		{"nil provider", func() (*Booking, error) {
			return NewBooking(testUser, uuid.Nil, uuid.New(), 500, 400, "addr", "2026-09-03", "10:00", "")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.mutate()
			assert.True(t, domain.IsKind(err, domain.KindValidation))
		})
	}
}

func TestAcceptDefaultsToProposedPrice(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Accept(testProvider, nil, ""))

	assert.Equal(t, StatusAccepted, bk.Status())
	require.NotNil(t, bk.FinalPrice())
	assert.Equal(t, 400.0, *bk.FinalPrice())
}

func TestAcceptWithOverride(t *testing.T) {
	bk := newTestBooking(t)

	override := 450.0
	require.NoError(t, bk.Accept(testProvider, &override, "can do Thursday"))

	require.NotNil(t, bk.FinalPrice())
	assert.Equal(t, 450.0, *bk.FinalPrice())
	assert.Equal(t, "can do Thursday", bk.ProviderNotes())
}

func TestAcceptByWrongProvider(t *testing.T) {
	bk := newTestBooking(t)

	err := bk.Accept(identity.Provider{ID: uuid.New()}, nil, "")
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
	assert.Equal(t, StatusPending, bk.Status())
}

func TestAcceptAlreadyAccepted(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Accept(testProvider, nil, ""))

	err := bk.Accept(testProvider, nil, "")
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))
}

func TestForbiddenWinsOverInvalidState(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Accept(testProvider, nil, ""))

	// A non-owning provider on an already-accepted booking must see
	// Forbidden, not InvalidState.
	err := bk.Accept(identity.Provider{ID: uuid.New()}, nil, "")
	assert.True(t, domain.IsKind(err, domain.KindForbidden))
}

func TestRejectDefaultNote(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Reject(testProvider, ""))

	assert.Equal(t, StatusRejected, bk.Status())
	assert.Equal(t, DefaultRejectNote, bk.ProviderNotes())
}

func TestCompleteSetsCompletedAt(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Accept(testProvider, nil, ""))

	require.NoError(t, bk.Complete(testProvider))

	assert.Equal(t, StatusCompleted, bk.Status())
	assert.NotNil(t, bk.CompletedAt())
}

func TestCompleteFromPending(t *testing.T) {
	bk := newTestBooking(t)

	err := bk.Complete(testProvider)
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))
}

func TestCancel(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Cancel(testUser))
		assert.Equal(t, StatusCancelled, bk.Status())
	})

	t.Run("from accepted", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Accept(testProvider, nil, ""))
		require.NoError(t, bk.Cancel(testUser))
		assert.Equal(t, StatusCancelled, bk.Status())
	})

	t.Run("by non-owning user", func(t *testing.T) {
		bk := newTestBooking(t)
		err := bk.Cancel(identity.User{ID: uuid.New()})
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
		assert.Equal(t, StatusPending, bk.Status())
	})

	t.Run("from completed", func(t *testing.T) {
		bk := newTestBooking(t)
		require.NoError(t, bk.Accept(testProvider, nil, ""))
		require.NoError(t, bk.Complete(testProvider))
		err := bk.Cancel(testUser)
		assert.True(t, domain.IsKind(err, domain.KindInvalidState))
	})
}

func TestRate(t *testing.T) {
	completed := func(t *testing.T) *Booking {
		bk := newTestBooking(t)
		require.NoError(t, bk.Accept(testProvider, nil, ""))
		require.NoError(t, bk.Complete(testProvider))
		return bk
	}

	t.Run("marks payment and snapshots reviewer", func(t *testing.T) {
		bk := completed(t)
		require.NoError(t, bk.Rate(testUser, 5, "great work"))

		require.NotNil(t, bk.Rating())
		assert.Equal(t, 5, *bk.Rating())
		assert.Equal(t, "great work", bk.Review())
		assert.Equal(t, testUser.Name, bk.ReviewerName())
		assert.Equal(t, PaymentPaid, bk.PaymentStatus())
		assert.Equal(t, StatusCompleted, bk.Status())
	})

	t.Run("second rating rejected", func(t *testing.T) {
		bk := completed(t)
		require.NoError(t, bk.Rate(testUser, 5, ""))

		err := bk.Rate(testUser, 1, "changed my mind")
		assert.True(t, domain.IsKind(err, domain.KindAlreadyRated))
		assert.Equal(t, 5, *bk.Rating())
	})

	t.Run("before completion", func(t *testing.T) {
		bk := newTestBooking(t)
		err := bk.Rate(testUser, 4, "")
		assert.True(t, domain.IsKind(err, domain.KindInvalidState))
	})

	t.Run("out of range", func(t *testing.T) {
		bk := completed(t)
		assert.True(t, domain.IsKind(bk.Rate(testUser, 0, ""), domain.KindValidation))
		assert.True(t, domain.IsKind(bk.Rate(testUser, 6, ""), domain.KindValidation))
	})

	t.Run("by non-owning user", func(t *testing.T) {
		bk := completed(t)
		err := bk.Rate(identity.User{ID: uuid.New()}, 5, "")
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})
}
