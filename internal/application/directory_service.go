package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servilink/service-booking/internal/domain/catalog"
	"github.com/servilink/service-booking/internal/domain/identity"
)

// RegisterProviderRequest holds the directory entry for a provider.
type RegisterProviderRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Pincode  string `json:"pincode" binding:"required"`
	Bio      string `json:"bio"`
}

// ProviderDTO is the public representation of a directory entry.
type ProviderDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Pincode      string    `json:"pincode"`
	Bio          string    `json:"bio,omitempty"`
	Rating       float64   `json:"rating"`
	TotalReviews int64     `json:"totalReviews"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DirectoryService manages the public provider directory.
type DirectoryService struct {
	providers catalog.ProviderRepository
	logger    *zap.Logger
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(providers catalog.ProviderRepository, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{providers: providers, logger: logger}
}

// RegisterProvider creates the authenticated provider's directory entry.
func (s *DirectoryService) RegisterProvider(ctx context.Context, provider identity.Provider, req RegisterProviderRequest) (*ProviderDTO, error) {
	entry, err := catalog.NewProvider(provider.ID, req.Name, req.Category, req.Pincode, req.Bio)
	if err != nil {
		return nil, err
	}

	if err := s.providers.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("provider registered",
		zap.String("provider_id", entry.ID().String()),
		zap.String("category", entry.Category()),
	)

	result := toProviderDTO(entry)
	return &result, nil
}

// ListProviders lists active providers, filtered by category and/or pincode.
func (s *DirectoryService) ListProviders(ctx context.Context, filter catalog.ProviderFilter) ([]ProviderDTO, error) {
	providers, err := s.providers.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProviderDTO, len(providers))
	for i, p := range providers {
		dtos[i] = toProviderDTO(p)
	}
	return dtos, nil
}

// GetProvider fetches one provider's public profile.
func (s *DirectoryService) GetProvider(ctx context.Context, id uuid.UUID) (*ProviderDTO, error) {
	p, err := s.providers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toProviderDTO(p)
	return &result, nil
}

func toProviderDTO(p *catalog.Provider) ProviderDTO {
	return ProviderDTO{
		ID:           p.ID(),
		Name:         p.Name(),
		Category:     p.Category(),
		Pincode:      p.Pincode(),
		Bio:          p.Bio(),
		Rating:       p.Rating(),
		TotalReviews: p.TotalReviews(),
		CreatedAt:    p.CreatedAt(),
	}
}
