//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servilink/service-booking/internal/application"
	"github.com/servilink/service-booking/internal/domain"
	bookingDomain "github.com/servilink/service-booking/internal/domain/booking"
	"github.com/servilink/service-booking/internal/domain/identity"
	"github.com/servilink/service-booking/internal/events"
	"github.com/servilink/service-booking/internal/repository"
)

// TestBookingLifecycle_RatingUpdatesProviderAggregate drives a booking from
// creation through rating against real Postgres and Kafka, then verifies the
// provider's rating aggregate and the booking.rated event.
func TestBookingLifecycle_RatingUpdatesProviderAggregate(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	providerID, serviceID := seedProviderWithService(t, infra.DB, 500)
	user := identity.User{ID: uuid.New(), Name: "Asha"}
	provider := identity.Provider{ID: providerID, Name: "Ravi Plumbing"}
	ctx := context.Background()

	// Create: base price snapshots from the catalog, final price unset.
	created, err := stack.Service.CreateBooking(ctx, user, application.CreateBookingRequest{
		ProviderID:     providerID,
		ServiceID:      serviceID,
		ProposedPrice:  400,
		ServiceAddress: "12 MG Road, Indiranagar",
		PreferredDate:  "2026-09-03",
		PreferredTime:  "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, 500.0, created.BasePrice)
	assert.Nil(t, created.FinalPrice)

	// Accept without an override: the proposed price becomes final.
	accepted, err := stack.Service.AcceptBooking(ctx, provider, created.ID, application.AcceptBookingRequest{})
	require.NoError(t, err)
	require.NotNil(t, accepted.FinalPrice)
	assert.Equal(t, 400.0, *accepted.FinalPrice)

	completed, err := stack.Service.CompleteBooking(ctx, provider, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)

	rated, err := stack.Service.RateBooking(ctx, user, created.ID, application.RateBookingRequest{
		Rating: 5,
		Review: "fixed it in one visit",
	})
	require.NoError(t, err)
	assert.Equal(t, "paid", rated.PaymentStatus)

	// The provider row carries the recomputed aggregate.
	providerRow := loadProvider(t, infra.DB, providerID)
	assert.Equal(t, 5.0, providerRow.Rating)
	assert.Equal(t, int64(1), providerRow.TotalReviews)

	// The rating event went out on booking.events with the new aggregate.
	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingRated, 15*time.Second)

	var evt events.BookingRatedEvent
	require.NoError(t, ce.ParseData(&evt))
	assert.Equal(t, created.ID, evt.BookingID)
	assert.Equal(t, providerID, evt.ProviderID)
	assert.Equal(t, 5, evt.Rating)
	assert.Equal(t, 5.0, evt.ProviderRating)
	assert.Equal(t, int64(1), evt.TotalReviews)
}

// TestBookingLifecycle_RejectAfterAccept verifies that a second transition
// on an already-accepted booking is refused and the stored row keeps the
// winning state.
func TestBookingLifecycle_RejectAfterAccept(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	providerID, serviceID := seedProviderWithService(t, infra.DB, 500)
	user := identity.User{ID: uuid.New(), Name: "Asha"}
	provider := identity.Provider{ID: providerID, Name: "Ravi Plumbing"}
	ctx := context.Background()

	created, err := stack.Service.CreateBooking(ctx, user, application.CreateBookingRequest{
		ProviderID:     providerID,
		ServiceID:      serviceID,
		ProposedPrice:  400,
		ServiceAddress: "12 MG Road, Indiranagar",
		PreferredDate:  "2026-09-03",
		PreferredTime:  "10:00",
	})
	require.NoError(t, err)

	_, err = stack.Service.AcceptBooking(ctx, provider, created.ID, application.AcceptBookingRequest{})
	require.NoError(t, err)

	_, err = stack.Service.RejectBooking(ctx, provider, created.ID, application.RejectBookingRequest{})
	assert.Error(t, err)

	fetched, err := stack.Service.GetBooking(ctx, providerID, identity.RoleProvider, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", fetched.Status)
}

// TestBookingLifecycle_RacedTransitionConflicts verifies the version check on
// the booking row: two aggregates loaded from the same state both pass their
// in-memory transition, but only the first conditional update lands; the
// second gets a conflict and the row keeps the winner's state.
func TestBookingLifecycle_RacedTransitionConflicts(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	providerID, serviceID := seedProviderWithService(t, infra.DB, 500)
	user := identity.User{ID: uuid.New(), Name: "Asha"}
	provider := identity.Provider{ID: providerID, Name: "Ravi Plumbing"}
	ctx := context.Background()

	created, err := stack.Service.CreateBooking(ctx, user, application.CreateBookingRequest{
		ProviderID:     providerID,
		ServiceID:      serviceID,
		ProposedPrice:  400,
		ServiceAddress: "12 MG Road, Indiranagar",
		PreferredDate:  "2026-09-03",
		PreferredTime:  "10:00",
	})
	require.NoError(t, err)

	repo := repository.NewGormBookingRepository(infra.DB)

	first, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	// Both in-memory aggregates see the pending state and transition cleanly.
	require.NoError(t, first.Accept(provider, nil, ""))
	require.NoError(t, second.Reject(provider, "double-booked"))

	first.IncrementVersion()
	require.NoError(t, repo.Update(ctx, first))

	second.IncrementVersion()
	err = repo.Update(ctx, second)
	assert.True(t, domain.IsKind(err, domain.KindConflict), "stale write should conflict, got: %v", err)

	current, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusAccepted, current.Status())
	require.NotNil(t, current.FinalPrice())
	assert.Equal(t, 400.0, *current.FinalPrice())
}
