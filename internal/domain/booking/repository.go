package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RatingSummary is the recomputed aggregate over a provider's rated bookings.
type RatingSummary struct {
	Average float64
	Count   int64
}

// ProviderStats aggregates a provider's earnings and activity.
type ProviderStats struct {
	TotalEarnings   float64
	CompletedJobs   int64
	AvgRating       float64
	TodayBookings   int64
	PendingRequests int64
	TotalBookings   int64
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByUserID retrieves all bookings created by a user, newest first.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Booking, error)

	// FindByProviderID retrieves all bookings targeting a provider, newest first.
	FindByProviderID(ctx context.Context, providerID uuid.UUID) ([]*Booking, error)

	// FindRatedByProviderID retrieves a provider's completed bookings that
	// carry a rating, newest first.
	FindRatedByProviderID(ctx context.Context, providerID uuid.UUID) ([]*Booking, error)

	// RatingSummaryByProviderID recomputes the mean and count over every
	// rated booking for the provider.
	RatingSummaryByProviderID(ctx context.Context, providerID uuid.UUID) (RatingSummary, error)

	// StatsByProviderID aggregates earnings and activity for the provider.
	// todayStart is the local-midnight boundary used for today's count.
	StatsByProviderID(ctx context.Context, providerID uuid.UUID, todayStart time.Time) (ProviderStats, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
