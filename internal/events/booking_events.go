package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents carries every booking lifecycle event.
const TopicBookingEvents = "booking.events"

// Event types published on TopicBookingEvents.
const (
	BookingCreated   = "booking.created"
	BookingAccepted  = "booking.accepted"
	BookingRejected  = "booking.rejected"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
	BookingRated     = "booking.rated"
)

// BookingCreatedEvent is published when a user submits a booking request.
type BookingCreatedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	UserID        uuid.UUID `json:"user_id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	ServiceID     uuid.UUID `json:"service_id"`
	BasePrice     float64   `json:"base_price"`
	ProposedPrice float64   `json:"proposed_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingAcceptedEvent is published when a provider accepts a booking.
type BookingAcceptedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	FinalPrice float64   `json:"final_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingRejectedEvent is published when a provider rejects a booking.
type BookingRejectedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCompletedEvent is published when a provider completes a job.
type BookingCompletedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	UserID      uuid.UUID `json:"user_id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	FinalPrice  float64   `json:"final_price"`
	CompletedAt time.Time `json:"completed_at"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a user cancels a booking.
type BookingCancelledEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingRatedEvent is published when a user rates a completed booking.
type BookingRatedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	UserID         uuid.UUID `json:"user_id"`
	ProviderID     uuid.UUID `json:"provider_id"`
	Rating         int       `json:"rating"`
	ProviderRating float64   `json:"provider_rating"`
	TotalReviews   int64     `json:"total_reviews"`
	OccurredAt     time.Time `json:"occurred_at"`
}
