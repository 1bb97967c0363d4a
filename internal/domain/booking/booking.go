package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/servilink/service-booking/internal/domain"
	"github.com/servilink/service-booking/internal/domain/identity"
)

// DefaultRejectNote is recorded when a provider rejects without a reason.
const DefaultRejectNote = "provider is unable to take this booking"

// Booking is the aggregate root for the booking domain. It links a user,
// a provider and a catalog service through the negotiation/fulfillment
// lifecycle.
type Booking struct {
	id         uuid.UUID
	userID     uuid.UUID
	providerID uuid.UUID
	serviceID  uuid.UUID

	basePrice     float64
	proposedPrice float64
	finalPrice    *float64

	status BookingStatus

	serviceAddress string
	preferredDate  string
	preferredTime  string

	userNotes     string
	providerNotes string

	paymentStatus PaymentStatus

	rating       *int
	review       string
	reviewerName string

	version     int64
	createdAt   time.Time
	updatedAt   time.Time
	completedAt *time.Time
}

// NewBooking creates a new Booking aggregate with status=pending. The
// base price is the caller-supplied snapshot of the service's current
// base price; historical bookings are decoupled from future catalog
// price changes.
func NewBooking(
	user identity.User,
	providerID uuid.UUID,
	serviceID uuid.UUID,
	basePrice float64,
	proposedPrice float64,
	serviceAddress string,
	preferredDate string,
	preferredTime string,
	userNotes string,
) (*Booking, error) {
	if user.ID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if providerID == uuid.Nil {
		return nil, domain.NewValidationError("provider ID is required")
	}
	if serviceID == uuid.Nil {
		return nil, domain.NewValidationError("service ID is required")
	}
	if proposedPrice <= 0 {
		return nil, domain.NewValidationError("proposed price must be positive")
	}
	if serviceAddress == "" {
		return nil, domain.NewValidationError("service address is required")
	}
	if preferredDate == "" {
		return nil, domain.NewValidationError("preferred date is required")
	}
	if preferredTime == "" {
		return nil, domain.NewValidationError("preferred time is required")
	}

	now := time.Now().UTC()
	return &Booking{
		id:             uuid.New(),
		userID:         user.ID,
		providerID:     providerID,
		serviceID:      serviceID,
		basePrice:      basePrice,
		proposedPrice:  proposedPrice,
		status:         StatusPending,
		serviceAddress: serviceAddress,
		preferredDate:  preferredDate,
		preferredTime:  preferredTime,
		userNotes:      userNotes,
		paymentStatus:  PaymentPending,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	userID uuid.UUID,
	providerID uuid.UUID,
	serviceID uuid.UUID,
	basePrice float64,
	proposedPrice float64,
	finalPrice *float64,
	status BookingStatus,
	serviceAddress string,
	preferredDate string,
	preferredTime string,
	userNotes string,
	providerNotes string,
	paymentStatus PaymentStatus,
	rating *int,
	review string,
	reviewerName string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
	completedAt *time.Time,
) *Booking {
	return &Booking{
		id:             id,
		userID:         userID,
		providerID:     providerID,
		serviceID:      serviceID,
		basePrice:      basePrice,
		proposedPrice:  proposedPrice,
		finalPrice:     finalPrice,
		status:         status,
		serviceAddress: serviceAddress,
		preferredDate:  preferredDate,
		preferredTime:  preferredTime,
		userNotes:      userNotes,
		providerNotes:  providerNotes,
		paymentStatus:  paymentStatus,
		rating:         rating,
		review:         review,
		reviewerName:   reviewerName,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		completedAt:    completedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// UserID returns the initiating user's ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// ProviderID returns the targeted provider's ID.
func (b *Booking) ProviderID() uuid.UUID { return b.providerID }

// ServiceID returns the booked catalog service's ID.
func (b *Booking) ServiceID() uuid.UUID { return b.serviceID }

// BasePrice returns the service base price snapshotted at creation.
func (b *Booking) BasePrice() float64 { return b.basePrice }

// ProposedPrice returns the user's counter-offer set at creation.
func (b *Booking) ProposedPrice() float64 { return b.proposedPrice }

// FinalPrice returns the agreed price, or nil until the provider accepts.
func (b *Booking) FinalPrice() *float64 { return b.finalPrice }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// ServiceAddress returns the address where the service is requested.
func (b *Booking) ServiceAddress() string { return b.serviceAddress }

// PreferredDate returns the user's preferred service date.
func (b *Booking) PreferredDate() string { return b.preferredDate }

// PreferredTime returns the user's preferred service time.
func (b *Booking) PreferredTime() string { return b.preferredTime }

// UserNotes returns notes supplied by the user at creation.
func (b *Booking) UserNotes() string { return b.userNotes }

// ProviderNotes returns notes supplied by the provider on accept/reject.
func (b *Booking) ProviderNotes() string { return b.providerNotes }

// PaymentStatus returns the self-reported payment state.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// Rating returns the user's rating, or nil if not yet rated.
func (b *Booking) Rating() *int { return b.rating }

// Review returns the user's review text.
func (b *Booking) Review() string { return b.review }

// ReviewerName returns the display name snapshotted when the rating was written.
func (b *Booking) ReviewerName() string { return b.reviewerName }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// CompletedAt returns the completion timestamp, or nil if not completed.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// --- Behavior ---
//
// Ownership is checked before state on every transition: a non-owning
// actor gets Forbidden even when the status would also disqualify the
// transition.

// Accept transitions the booking from pending to accepted. The provider
// may override the user's proposed price; with no override the proposed
// price becomes final.
func (b *Booking) Accept(actor identity.Provider, finalPrice *float64, notes string) error {
	if actor.ID != b.providerID {
		return domain.NewForbiddenError("booking is not assigned to this provider")
	}
	if !b.status.CanTransitionTo(StatusAccepted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusAccepted))
	}
	agreed := b.proposedPrice
	if finalPrice != nil {
		if *finalPrice <= 0 {
			return domain.NewValidationError("final price must be positive")
		}
		agreed = *finalPrice
	}
	b.finalPrice = &agreed
	b.providerNotes = notes
	b.status = StatusAccepted
	b.updatedAt = time.Now().UTC()
	return nil
}

// Reject transitions the booking from pending to rejected.
func (b *Booking) Reject(actor identity.Provider, notes string) error {
	if actor.ID != b.providerID {
		return domain.NewForbiddenError("booking is not assigned to this provider")
	}
	if !b.status.CanTransitionTo(StatusRejected) {
		return domain.NewInvalidStateError(string(b.status), string(StatusRejected))
	}
	if notes == "" {
		notes = DefaultRejectNote
	}
	b.providerNotes = notes
	b.status = StatusRejected
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from accepted to completed.
func (b *Booking) Complete(actor identity.Provider) error {
	if actor.ID != b.providerID {
		return domain.NewForbiddenError("booking is not assigned to this provider")
	}
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled while it is still pending
// or accepted. Cancellation is a terminal status, not a deletion.
func (b *Booking) Cancel(actor identity.User) error {
	if actor.ID != b.userID {
		return domain.NewForbiddenError("booking does not belong to this user")
	}
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// Rate records the user's one-time rating on a completed booking and
// marks the offline payment as settled. Status is unchanged.
func (b *Booking) Rate(actor identity.User, rating int, review string) error {
	if actor.ID != b.userID {
		return domain.NewForbiddenError("booking does not belong to this user")
	}
	if b.status != StatusCompleted {
		return domain.NewInvalidStateError(string(b.status), "rated")
	}
	if b.rating != nil {
		return domain.NewAlreadyRatedError()
	}
	if rating < 1 || rating > 5 {
		return domain.NewValidationError("rating must be between 1 and 5")
	}
	b.rating = &rating
	b.review = review
	b.reviewerName = actor.Name
	b.paymentStatus = PaymentPaid
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
