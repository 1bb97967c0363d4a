package application

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servilink/service-booking/internal/domain"
	bookingDomain "github.com/servilink/service-booking/internal/domain/booking"
	"github.com/servilink/service-booking/internal/domain/catalog"
	"github.com/servilink/service-booking/internal/domain/identity"
	"github.com/servilink/service-booking/internal/events"
)

// EventPublisher publishes lifecycle events. Publishing is fire-and-forget;
// failures are logged by the service and never fail the request.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error
}

// ReviewCacher caches public review listings per provider.
type ReviewCacher interface {
	Get(ctx context.Context, providerID uuid.UUID, out interface{}) bool
	Set(ctx context.Context, providerID uuid.UUID, value interface{})
	Invalidate(ctx context.Context, providerID uuid.UUID)
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ProviderID     uuid.UUID `json:"providerId" binding:"required"`
	ServiceID      uuid.UUID `json:"serviceId" binding:"required"`
	ProposedPrice  float64   `json:"proposedPrice" binding:"required"`
	ServiceAddress string    `json:"serviceAddress" binding:"required"`
	PreferredDate  string    `json:"preferredDate" binding:"required"`
	PreferredTime  string    `json:"preferredTime" binding:"required"`
	UserNotes      string    `json:"userNotes"`
}

// AcceptBookingRequest holds the provider's optional price override and notes.
type AcceptBookingRequest struct {
	FinalPrice    *float64 `json:"finalPrice"`
	ProviderNotes string   `json:"providerNotes"`
}

// RejectBookingRequest holds the provider's optional rejection reason.
type RejectBookingRequest struct {
	ProviderNotes string `json:"providerNotes"`
}

// RateBookingRequest holds the user's one-time rating input.
type RateBookingRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"userId"`
	ProviderID     uuid.UUID  `json:"providerId"`
	ServiceID      uuid.UUID  `json:"serviceId"`
	BasePrice      float64    `json:"basePrice"`
	ProposedPrice  float64    `json:"proposedPrice"`
	FinalPrice     *float64   `json:"finalPrice,omitempty"`
	Status         string     `json:"status"`
	ServiceAddress string     `json:"serviceAddress"`
	PreferredDate  string     `json:"preferredDate"`
	PreferredTime  string     `json:"preferredTime"`
	UserNotes      string     `json:"userNotes,omitempty"`
	ProviderNotes  string     `json:"providerNotes,omitempty"`
	PaymentStatus  string     `json:"paymentStatus"`
	Rating         *int       `json:"rating,omitempty"`
	Review         string     `json:"review,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// ReviewDTO is one entry in the public review listing for a provider.
type ReviewDTO struct {
	Rating       int       `json:"rating"`
	Review       string    `json:"review"`
	CreatedAt    time.Time `json:"createdAt"`
	ReviewerName string    `json:"reviewerName"`
}

// ProviderStatsDTO aggregates a provider's earnings and activity.
type ProviderStatsDTO struct {
	TotalEarnings   float64 `json:"totalEarnings"`
	CompletedJobs   int64   `json:"completedJobs"`
	AvgRating       float64 `json:"avgRating"`
	TodayBookings   int64   `json:"todayBookings"`
	PendingRequests int64   `json:"pendingRequests"`
	TotalBookings   int64   `json:"totalBookings"`
}

// BookingService is the application service orchestrating the booking
// lifecycle and the derived provider aggregates.
type BookingService struct {
	bookings  bookingDomain.BookingRepository
	services  catalog.ServiceRepository
	providers catalog.ProviderRepository
	producer  EventPublisher
	cache     ReviewCacher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	services catalog.ServiceRepository,
	providers catalog.ProviderRepository,
	producer EventPublisher,
	cache ReviewCacher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		services:  services,
		providers: providers,
		producer:  producer,
		cache:     cache,
		logger:    logger,
	}
}

// CreateBooking creates a pending booking for the given user, snapshotting
// the service's current base price.
func (s *BookingService) CreateBooking(ctx context.Context, user identity.User, req CreateBookingRequest) (*BookingDTO, error) {
	svc, err := s.services.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active() {
		return nil, domain.NewNotFoundError("service", req.ServiceID.String())
	}
	if svc.ProviderID() != req.ProviderID {
		return nil, domain.NewInvalidReferenceError("service does not belong to the given provider")
	}

	bk, err := bookingDomain.NewBooking(
		user,
		req.ProviderID,
		req.ServiceID,
		svc.BasePrice(),
		req.ProposedPrice,
		req.ServiceAddress,
		req.PreferredDate,
		req.PreferredTime,
		req.UserNotes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.BookingCreated, bk.ID(), events.BookingCreatedEvent{
		BookingID:     bk.ID(),
		UserID:        bk.UserID(),
		ProviderID:    bk.ProviderID(),
		ServiceID:     bk.ServiceID(),
		BasePrice:     bk.BasePrice(),
		ProposedPrice: bk.ProposedPrice(),
		OccurredAt:    time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// AcceptBooking transitions a pending booking to accepted. With no price
// override the user's proposed price becomes final.
func (s *BookingService) AcceptBooking(ctx context.Context, provider identity.Provider, bookingID uuid.UUID, req AcceptBookingRequest) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Accept(provider, req.FinalPrice, req.ProviderNotes); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.BookingAccepted, bk.ID(), events.BookingAcceptedEvent{
		BookingID:  bk.ID(),
		UserID:     bk.UserID(),
		ProviderID: bk.ProviderID(),
		FinalPrice: *bk.FinalPrice(),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// RejectBooking transitions a pending booking to rejected.
func (s *BookingService) RejectBooking(ctx context.Context, provider identity.Provider, bookingID uuid.UUID, req RejectBookingRequest) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Reject(provider, req.ProviderNotes); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.BookingRejected, bk.ID(), events.BookingRejectedEvent{
		BookingID:  bk.ID(),
		UserID:     bk.UserID(),
		ProviderID: bk.ProviderID(),
		Reason:     bk.ProviderNotes(),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking transitions an accepted booking to completed.
func (s *BookingService) CompleteBooking(ctx context.Context, provider identity.Provider, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Complete(provider); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.BookingCompleted, bk.ID(), events.BookingCompletedEvent{
		BookingID:   bk.ID(),
		UserID:      bk.UserID(),
		ProviderID:  bk.ProviderID(),
		FinalPrice:  *bk.FinalPrice(),
		CompletedAt: *bk.CompletedAt(),
		OccurredAt:  time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking transitions a pending or accepted booking to cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, user identity.User, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Cancel(user); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.BookingCancelled, bk.ID(), events.BookingCancelledEvent{
		BookingID:  bk.ID(),
		UserID:     bk.UserID(),
		ProviderID: bk.ProviderID(),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// RateBooking records the user's one-time rating on a completed booking,
// then recomputes the provider's rating aggregate from the full rated set.
func (s *BookingService) RateBooking(ctx context.Context, user identity.User, bookingID uuid.UUID, req RateBookingRequest) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Rate(user, req.Rating, req.Review); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	// The booking's own rating is already durable at this point. The
	// provider aggregate write may fail independently; the aggregate is
	// then transiently stale and heals on the next rating event, since
	// every recomputation rescans the full rated set.
	summary, rounded := s.recomputeProviderRating(ctx, bk.ProviderID())

	if s.cache != nil {
		s.cache.Invalidate(ctx, bk.ProviderID())
	}

	s.publishEvent(ctx, events.BookingRated, bk.ID(), events.BookingRatedEvent{
		BookingID:      bk.ID(),
		UserID:         bk.UserID(),
		ProviderID:     bk.ProviderID(),
		Rating:         *bk.Rating(),
		ProviderRating: rounded,
		TotalReviews:   summary.Count,
		OccurredAt:     time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// recomputeProviderRating runs the read-recompute-write pass over the
// provider's rated bookings and persists the result onto the provider.
func (s *BookingService) recomputeProviderRating(ctx context.Context, providerID uuid.UUID) (bookingDomain.RatingSummary, float64) {
	summary, err := s.bookings.RatingSummaryByProviderID(ctx, providerID)
	if err != nil {
		s.logger.Warn("provider rating recompute failed; aggregate stale until next rating",
			zap.String("provider_id", providerID.String()),
			zap.Error(err),
		)
		return bookingDomain.RatingSummary{}, 0
	}

	rounded := roundToOneDecimal(summary.Average)
	if err := s.providers.UpdateRating(ctx, providerID, rounded, summary.Count); err != nil {
		s.logger.Warn("provider rating write failed; aggregate stale until next rating",
			zap.String("provider_id", providerID.String()),
			zap.Error(err),
		)
	}
	return summary, rounded
}

// GetBooking retrieves a single booking, visible only to its participants.
func (s *BookingService) GetBooking(ctx context.Context, actorID uuid.UUID, role identity.Role, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch role {
	case identity.RoleUser:
		if bk.UserID() != actorID {
			return nil, domain.NewForbiddenError("booking does not belong to this user")
		}
	case identity.RoleProvider:
		if bk.ProviderID() != actorID {
			return nil, domain.NewForbiddenError("booking is not assigned to this provider")
		}
	default:
		return nil, domain.NewForbiddenError("unknown role")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetUserBookings retrieves all of a user's bookings, newest first.
func (s *BookingService) GetUserBookings(ctx context.Context, user identity.User) ([]BookingDTO, error) {
	bookings, err := s.bookings.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// GetProviderRequests retrieves all bookings targeting a provider, newest first.
func (s *BookingService) GetProviderRequests(ctx context.Context, provider identity.Provider) ([]BookingDTO, error) {
	bookings, err := s.bookings.FindByProviderID(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// GetProviderStats aggregates a provider's earnings and activity. A
// provider with no completed bookings gets explicit zeros, never nulls.
func (s *BookingService) GetProviderStats(ctx context.Context, provider identity.Provider) (*ProviderStatsDTO, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.bookings.StatsByProviderID(ctx, provider.ID, todayStart)
	if err != nil {
		return nil, err
	}

	return &ProviderStatsDTO{
		TotalEarnings:   stats.TotalEarnings,
		CompletedJobs:   stats.CompletedJobs,
		AvgRating:       roundToOneDecimal(stats.AvgRating),
		TodayBookings:   stats.TodayBookings,
		PendingRequests: stats.PendingRequests,
		TotalBookings:   stats.TotalBookings,
	}, nil
}

// ListProviderReviews returns the public reviews for a provider, cache-aside.
func (s *BookingService) ListProviderReviews(ctx context.Context, providerID uuid.UUID) ([]ReviewDTO, error) {
	if s.cache != nil {
		var cached []ReviewDTO
		if s.cache.Get(ctx, providerID, &cached) {
			return cached, nil
		}
	}

	bookings, err := s.bookings.FindRatedByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	reviews := make([]ReviewDTO, len(bookings))
	for i, bk := range bookings {
		reviews[i] = ReviewDTO{
			Rating:       *bk.Rating(),
			Review:       bk.Review(),
			CreatedAt:    bk.CreatedAt(),
			ReviewerName: bk.ReviewerName(),
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, providerID, reviews)
	}
	return reviews, nil
}

// --- Helpers ---

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:             bk.ID(),
		UserID:         bk.UserID(),
		ProviderID:     bk.ProviderID(),
		ServiceID:      bk.ServiceID(),
		BasePrice:      bk.BasePrice(),
		ProposedPrice:  bk.ProposedPrice(),
		FinalPrice:     bk.FinalPrice(),
		Status:         string(bk.Status()),
		ServiceAddress: bk.ServiceAddress(),
		PreferredDate:  bk.PreferredDate(),
		PreferredTime:  bk.PreferredTime(),
		UserNotes:      bk.UserNotes(),
		ProviderNotes:  bk.ProviderNotes(),
		PaymentStatus:  string(bk.PaymentStatus()),
		Rating:         bk.Rating(),
		Review:         bk.Review(),
		CreatedAt:      bk.CreatedAt(),
		UpdatedAt:      bk.UpdatedAt(),
		CompletedAt:    bk.CompletedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, key uuid.UUID, data interface{}) {
	if s.producer == nil {
		return
	}

	cloudEvent, err := events.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, key.String(), cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
