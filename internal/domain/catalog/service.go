package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/servilink/service-booking/internal/domain"
)

// Service is a catalog item with a base price, owned by exactly one provider.
type Service struct {
	id          uuid.UUID
	providerID  uuid.UUID
	name        string
	description string
	category    string
	basePrice   float64
	active      bool
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewService creates a new active catalog service with validated fields.
func NewService(providerID uuid.UUID, name, description, category string, basePrice float64) (*Service, error) {
	if providerID == uuid.Nil {
		return nil, domain.NewValidationError("provider ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("service name is required")
	}
	if category == "" {
		return nil, domain.NewValidationError("service category is required")
	}
	if basePrice <= 0 {
		return nil, domain.NewValidationError("base price must be positive")
	}

	now := time.Now().UTC()
	return &Service{
		id:          uuid.New(),
		providerID:  providerID,
		name:        name,
		description: description,
		category:    category,
		basePrice:   basePrice,
		active:      true,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructService rebuilds a Service from persistence data (no validation).
func ReconstructService(
	id, providerID uuid.UUID,
	name, description, category string,
	basePrice float64,
	active bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Service {
	return &Service{
		id:          id,
		providerID:  providerID,
		name:        name,
		description: description,
		category:    category,
		basePrice:   basePrice,
		active:      active,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Getters.
func (s *Service) ID() uuid.UUID         { return s.id }
func (s *Service) ProviderID() uuid.UUID { return s.providerID }
func (s *Service) Name() string          { return s.name }
func (s *Service) Description() string   { return s.description }
func (s *Service) Category() string      { return s.category }
func (s *Service) BasePrice() float64    { return s.basePrice }
func (s *Service) Active() bool          { return s.active }
func (s *Service) Version() int64        { return s.version }
func (s *Service) CreatedAt() time.Time  { return s.createdAt }
func (s *Service) UpdatedAt() time.Time  { return s.updatedAt }

// UpdateDetails replaces the mutable catalog fields.
func (s *Service) UpdateDetails(name, description, category string, basePrice float64) error {
	if name == "" {
		return domain.NewValidationError("service name is required")
	}
	if category == "" {
		return domain.NewValidationError("service category is required")
	}
	if basePrice <= 0 {
		return domain.NewValidationError("base price must be positive")
	}
	s.name = name
	s.description = description
	s.category = category
	s.basePrice = basePrice
	s.updatedAt = time.Now().UTC()
	return nil
}

// Deactivate removes the service from booking eligibility without deleting it.
func (s *Service) Deactivate() {
	s.active = false
	s.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (s *Service) IncrementVersion() {
	s.version++
	s.updatedAt = time.Now().UTC()
}
