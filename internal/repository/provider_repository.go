package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/servilink/service-booking/internal/domain"
	"github.com/servilink/service-booking/internal/domain/catalog"
)

// ProviderModel is the GORM model for the providers table.
type ProviderModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null;size:200"`
	Category     string    `gorm:"not null;size:100;index"`
	Pincode      string    `gorm:"not null;size:20;index"`
	Bio          string    `gorm:"size:1000"`
	Rating       float64   `gorm:"type:decimal(2,1);not null;default:0"`
	TotalReviews int64     `gorm:"not null;default:0"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ProviderModel) TableName() string {
	return "providers"
}

// GormProviderRepository is the GORM-based implementation of ProviderRepository.
type GormProviderRepository struct {
	db *gorm.DB
}

// NewGormProviderRepository creates a new GormProviderRepository.
func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// FindByID retrieves a provider by its unique identifier.
func (r *GormProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Provider, error) {
	var model ProviderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("provider", id.String())
		}
		return nil, domain.NewStorageError("failed to find provider by ID", err)
	}
	return toDomainProvider(&model), nil
}

// List retrieves active providers matching the filter. Pincode is an
// opaque string compared for equality.
func (r *GormProviderRepository) List(ctx context.Context, filter catalog.ProviderFilter) ([]*catalog.Provider, error) {
	query := r.db.WithContext(ctx).Where("active = ?", true)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Pincode != "" {
		query = query.Where("pincode = ?", filter.Pincode)
	}

	var models []ProviderModel
	if err := query.Order("rating DESC, total_reviews DESC").Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("failed to list providers", err)
	}

	providers := make([]*catalog.Provider, len(models))
	for i := range models {
		providers[i] = toDomainProvider(&models[i])
	}
	return providers, nil
}

// Save persists a new provider directory entry.
func (r *GormProviderRepository) Save(ctx context.Context, provider *catalog.Provider) error {
	if err := r.db.WithContext(ctx).Create(toProviderModel(provider)).Error; err != nil {
		return domain.NewStorageError("failed to save provider", err)
	}
	return nil
}

// UpdateRating persists the derived rating aggregate onto the provider record.
func (r *GormProviderRepository) UpdateRating(ctx context.Context, providerID uuid.UUID, rating float64, totalReviews int64) error {
	result := r.db.WithContext(ctx).
		Model(&ProviderModel{}).
		Where("id = ?", providerID).
		Updates(map[string]interface{}{
			"rating":        rating,
			"total_reviews": totalReviews,
			"updated_at":    time.Now().UTC(),
		})

	if result.Error != nil {
		return domain.NewStorageError("failed to update provider rating", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("provider", providerID.String())
	}
	return nil
}

func toProviderModel(p *catalog.Provider) *ProviderModel {
	return &ProviderModel{
		ID:           p.ID(),
		Name:         p.Name(),
		Category:     p.Category(),
		Pincode:      p.Pincode(),
		Bio:          p.Bio(),
		Rating:       p.Rating(),
		TotalReviews: p.TotalReviews(),
		Active:       p.Active(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

func toDomainProvider(m *ProviderModel) *catalog.Provider {
	return catalog.ReconstructProvider(
		m.ID,
		m.Name,
		m.Category,
		m.Pincode,
		m.Bio,
		m.Rating,
		m.TotalReviews,
		m.Active,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
