package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servilink/service-booking/internal/domain"
	"github.com/servilink/service-booking/internal/domain/catalog"
	"github.com/servilink/service-booking/internal/domain/identity"
)

// CreateServiceRequest holds the data for a new catalog service.
type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"required"`
	BasePrice   float64 `json:"basePrice" binding:"required"`
}

// UpdateServiceRequest holds replacement values for a catalog service.
type UpdateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" binding:"required"`
	BasePrice   float64 `json:"basePrice" binding:"required"`
}

// ServiceDTO is the response representation of a catalog service.
type ServiceDTO struct {
	ID          uuid.UUID `json:"id"`
	ProviderID  uuid.UUID `json:"providerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	BasePrice   float64   `json:"basePrice"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CatalogService manages a provider's service catalog.
type CatalogService struct {
	services catalog.ServiceRepository
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(services catalog.ServiceRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{services: services, logger: logger}
}

// CreateService adds a new active service to the provider's catalog.
func (s *CatalogService) CreateService(ctx context.Context, provider identity.Provider, req CreateServiceRequest) (*ServiceDTO, error) {
	svc, err := catalog.NewService(provider.ID, req.Name, req.Description, req.Category, req.BasePrice)
	if err != nil {
		return nil, err
	}

	if err := s.services.Save(ctx, svc); err != nil {
		return nil, err
	}

	s.logger.Info("catalog service created",
		zap.String("service_id", svc.ID().String()),
		zap.String("provider_id", provider.ID.String()),
	)

	result := toServiceDTO(svc)
	return &result, nil
}

// UpdateService replaces the catalog fields of a provider-owned service.
func (s *CatalogService) UpdateService(ctx context.Context, provider identity.Provider, serviceID uuid.UUID, req UpdateServiceRequest) (*ServiceDTO, error) {
	svc, err := s.ownedService(ctx, provider, serviceID)
	if err != nil {
		return nil, err
	}

	if err := svc.UpdateDetails(req.Name, req.Description, req.Category, req.BasePrice); err != nil {
		return nil, err
	}

	svc.IncrementVersion()
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}

	s.logger.Info("catalog service updated",
		zap.String("service_id", svc.ID().String()),
		zap.String("provider_id", provider.ID.String()),
	)

	result := toServiceDTO(svc)
	return &result, nil
}

// DeactivateService removes a service from booking eligibility.
func (s *CatalogService) DeactivateService(ctx context.Context, provider identity.Provider, serviceID uuid.UUID) error {
	svc, err := s.ownedService(ctx, provider, serviceID)
	if err != nil {
		return err
	}

	svc.Deactivate()
	svc.IncrementVersion()
	if err := s.services.Update(ctx, svc); err != nil {
		return err
	}

	s.logger.Info("catalog service deactivated",
		zap.String("service_id", svc.ID().String()),
		zap.String("provider_id", provider.ID.String()),
	)
	return nil
}

// GetProviderServices lists a provider's catalog.
func (s *CatalogService) GetProviderServices(ctx context.Context, providerID uuid.UUID) ([]ServiceDTO, error) {
	services, err := s.services.FindByProviderID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ServiceDTO, len(services))
	for i, svc := range services {
		dtos[i] = toServiceDTO(svc)
	}
	return dtos, nil
}

func (s *CatalogService) ownedService(ctx context.Context, provider identity.Provider, serviceID uuid.UUID) (*catalog.Service, error) {
	svc, err := s.services.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.ProviderID() != provider.ID {
		return nil, domain.NewForbiddenError("service does not belong to this provider")
	}
	return svc, nil
}

func toServiceDTO(svc *catalog.Service) ServiceDTO {
	return ServiceDTO{
		ID:          svc.ID(),
		ProviderID:  svc.ProviderID(),
		Name:        svc.Name(),
		Description: svc.Description(),
		Category:    svc.Category(),
		BasePrice:   svc.BasePrice(),
		Active:      svc.Active(),
		CreatedAt:   svc.CreatedAt(),
		UpdatedAt:   svc.UpdatedAt(),
	}
}
