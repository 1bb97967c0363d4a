package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/servilink/service-booking/internal/domain"
	bookingDomain "github.com/servilink/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProviderID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	ServiceID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	BasePrice      float64    `gorm:"type:decimal(10,2);not null"`
	ProposedPrice  float64    `gorm:"type:decimal(10,2);not null"`
	FinalPrice     *float64   `gorm:"type:decimal(10,2)"`
	Status         string     `gorm:"not null;size:20;index"`
	ServiceAddress string     `gorm:"not null;size:500"`
	PreferredDate  string     `gorm:"not null;size:30"`
	PreferredTime  string     `gorm:"not null;size:30"`
	UserNotes      string     `gorm:"size:1000"`
	ProviderNotes  string     `gorm:"size:1000"`
	PaymentStatus  string     `gorm:"not null;size:20"`
	Rating         *int       `gorm:""`
	Review         string     `gorm:"size:2000"`
	ReviewerName   string     `gorm:"size:120"`
	Version        int64      `gorm:"not null;default:1"`
	CreatedAt      time.Time  `gorm:"not null;index"`
	UpdatedAt      time.Time  `gorm:"not null"`
	CompletedAt    *time.Time `gorm:""`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", id.String())
		}
		return nil, domain.NewStorageError("failed to find booking by ID", err)
	}
	return toDomainBooking(&model)
}

// FindByUserID retrieves all bookings created by a user, newest first.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("failed to find user bookings", err)
	}
	return toDomainBookings(models)
}

// FindByProviderID retrieves all bookings targeting a provider, newest first.
func (r *GormBookingRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("failed to find provider bookings", err)
	}
	return toDomainBookings(models)
}

// FindRatedByProviderID retrieves a provider's completed, rated bookings, newest first.
func (r *GormBookingRepository) FindRatedByProviderID(ctx context.Context, providerID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND status = ? AND rating IS NOT NULL", providerID, bookingDomain.StatusCompleted).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("failed to find rated bookings", err)
	}
	return toDomainBookings(models)
}

// RatingSummaryByProviderID recomputes the mean and count over every rated
// booking for the provider. This is the full-set read-recompute pass: the
// aggregate always reflects exactly the current rated-booking set.
func (r *GormBookingRepository) RatingSummaryByProviderID(ctx context.Context, providerID uuid.UUID) (bookingDomain.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(rating) AS count").
		Where("provider_id = ? AND rating IS NOT NULL", providerID).
		Scan(&row).Error; err != nil {
		return bookingDomain.RatingSummary{}, domain.NewStorageError("failed to compute rating summary", err)
	}
	return bookingDomain.RatingSummary{Average: row.Average, Count: row.Count}, nil
}

// StatsByProviderID aggregates earnings and activity for the provider in a
// single scan over its bookings.
func (r *GormBookingRepository) StatsByProviderID(ctx context.Context, providerID uuid.UUID, todayStart time.Time) (bookingDomain.ProviderStats, error) {
	var row struct {
		TotalEarnings   float64
		CompletedJobs   int64
		AvgRating       float64
		TodayBookings   int64
		PendingRequests int64
		TotalBookings   int64
	}
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select(`
			COALESCE(SUM(CASE WHEN status = 'completed' THEN final_price END), 0) AS total_earnings,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) AS completed_jobs,
			COALESCE(AVG(rating), 0) AS avg_rating,
			COUNT(CASE WHEN created_at >= ? THEN 1 END) AS today_bookings,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending_requests,
			COUNT(*) AS total_bookings`, todayStart).
		Where("provider_id = ?", providerID).
		Scan(&row).Error; err != nil {
		return bookingDomain.ProviderStats{}, domain.NewStorageError("failed to compute provider stats", err)
	}
	return bookingDomain.ProviderStats{
		TotalEarnings:   row.TotalEarnings,
		CompletedJobs:   row.CompletedJobs,
		AvgRating:       row.AvgRating,
		TodayBookings:   row.TodayBookings,
		PendingRequests: row.PendingRequests,
		TotalBookings:   row.TotalBookings,
	}, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return domain.NewStorageError("failed to save booking", err)
	}
	return nil
}

// Update persists changes to an existing booking. The write is conditional
// on the version the aggregate was loaded at (IncrementVersion has already
// bumped it); a raced transition loses the compare-and-swap and surfaces
// as a conflict instead of overwriting the winner.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"final_price":    model.FinalPrice,
			"status":         model.Status,
			"provider_notes": model.ProviderNotes,
			"payment_status": model.PaymentStatus,
			"rating":         model.Rating,
			"review":         model.Review,
			"reviewer_name":  model.ReviewerName,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
			"completed_at":   model.CompletedAt,
		})

	if result.Error != nil {
		return domain.NewStorageError("failed to update booking", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another request")
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
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
		ReviewerName:   bk.ReviewerName(),
		Version:        bk.Version(),
		CreatedAt:      bk.CreatedAt(),
		UpdatedAt:      bk.UpdatedAt(),
		CompletedAt:    bk.CompletedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, domain.NewStorageError("corrupt booking status", err)
	}
	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, domain.NewStorageError("corrupt payment status", err)
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.UserID,
		m.ProviderID,
		m.ServiceID,
		m.BasePrice,
		m.ProposedPrice,
		m.FinalPrice,
		status,
		m.ServiceAddress,
		m.PreferredDate,
		m.PreferredTime,
		m.UserNotes,
		m.ProviderNotes,
		paymentStatus,
		m.Rating,
		m.Review,
		m.ReviewerName,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
		m.CompletedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
