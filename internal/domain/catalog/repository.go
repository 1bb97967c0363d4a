package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProviderFilter narrows directory listings. Empty fields match everything;
// pincode is an opaque string compared for equality.
type ProviderFilter struct {
	Category string
	Pincode  string
}

// ServiceRepository defines persistence operations for catalog services.
type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)
	FindByProviderID(ctx context.Context, providerID uuid.UUID) ([]*Service, error)
	Save(ctx context.Context, svc *Service) error
	Update(ctx context.Context, svc *Service) error
}

// ProviderRepository defines persistence operations for the provider directory.
type ProviderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	List(ctx context.Context, filter ProviderFilter) ([]*Provider, error)
	Save(ctx context.Context, provider *Provider) error

	// UpdateRating persists the derived rating aggregate. Only the booking
	// engine's rate transition calls this.
	UpdateRating(ctx context.Context, providerID uuid.UUID, rating float64, totalReviews int64) error
}
