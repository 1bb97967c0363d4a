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

// ServiceModel is the GORM model for the services table.
type ServiceModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProviderID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null;size:200"`
	Description string    `gorm:"size:1000"`
	Category    string    `gorm:"not null;size:100;index"`
	BasePrice   float64   `gorm:"type:decimal(10,2);not null"`
	Active      bool      `gorm:"not null;default:true"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ServiceModel) TableName() string {
	return "services"
}

// GormServiceRepository is the GORM-based implementation of ServiceRepository.
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository.
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindByID retrieves a service by its unique identifier.
func (r *GormServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	var model ServiceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("service", id.String())
		}
		return nil, domain.NewStorageError("failed to find service by ID", err)
	}
	return toDomainService(&model), nil
}

// FindByProviderID retrieves all services owned by a provider.
func (r *GormServiceRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID) ([]*catalog.Service, error) {
	var models []ServiceModel
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("failed to find provider services", err)
	}

	services := make([]*catalog.Service, len(models))
	for i := range models {
		services[i] = toDomainService(&models[i])
	}
	return services, nil
}

// Save persists a new service.
func (r *GormServiceRepository) Save(ctx context.Context, svc *catalog.Service) error {
	if err := r.db.WithContext(ctx).Create(toServiceModel(svc)).Error; err != nil {
		return domain.NewStorageError("failed to save service", err)
	}
	return nil
}

// Update persists changes to an existing service with optimistic locking.
func (r *GormServiceRepository) Update(ctx context.Context, svc *catalog.Service) error {
	model := toServiceModel(svc)

	expectedVersion := svc.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&ServiceModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"category":    model.Category,
			"base_price":  model.BasePrice,
			"active":      model.Active,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return domain.NewStorageError("failed to update service", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("service was modified by another request")
	}
	return nil
}

func toServiceModel(svc *catalog.Service) *ServiceModel {
	return &ServiceModel{
		ID:          svc.ID(),
		ProviderID:  svc.ProviderID(),
		Name:        svc.Name(),
		Description: svc.Description(),
		Category:    svc.Category(),
		BasePrice:   svc.BasePrice(),
		Active:      svc.Active(),
		Version:     svc.Version(),
		CreatedAt:   svc.CreatedAt(),
		UpdatedAt:   svc.UpdatedAt(),
	}
}

func toDomainService(m *ServiceModel) *catalog.Service {
	return catalog.ReconstructService(
		m.ID,
		m.ProviderID,
		m.Name,
		m.Description,
		m.Category,
		m.BasePrice,
		m.Active,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
