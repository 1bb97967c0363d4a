package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/servilink/service-booking/internal/domain"
)

// Provider is a service-offering actor in the directory. Its rating and
// totalReviews fields are derived values owned by the booking engine's
// rate transition; nothing else writes them.
type Provider struct {
	id           uuid.UUID
	name         string
	category     string
	pincode      string
	bio          string
	rating       float64
	totalReviews int64
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewProvider creates a new active directory entry.
func NewProvider(id uuid.UUID, name, category, pincode, bio string) (*Provider, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("provider ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("provider name is required")
	}
	if category == "" {
		return nil, domain.NewValidationError("provider category is required")
	}
	if pincode == "" {
		return nil, domain.NewValidationError("provider pincode is required")
	}

	now := time.Now().UTC()
	return &Provider{
		id:        id,
		name:      name,
		category:  category,
		pincode:   pincode,
		bio:       bio,
		active:    true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructProvider rebuilds a Provider from persistence data (no validation).
func ReconstructProvider(
	id uuid.UUID,
	name, category, pincode, bio string,
	rating float64,
	totalReviews int64,
	active bool,
	createdAt, updatedAt time.Time,
) *Provider {
	return &Provider{
		id:           id,
		name:         name,
		category:     category,
		pincode:      pincode,
		bio:          bio,
		rating:       rating,
		totalReviews: totalReviews,
		active:       active,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Getters.
func (p *Provider) ID() uuid.UUID       { return p.id }
func (p *Provider) Name() string        { return p.name }
func (p *Provider) Category() string    { return p.category }
func (p *Provider) Pincode() string     { return p.pincode }
func (p *Provider) Bio() string         { return p.bio }
func (p *Provider) Rating() float64     { return p.rating }
func (p *Provider) TotalReviews() int64 { return p.totalReviews }
func (p *Provider) Active() bool        { return p.active }
func (p *Provider) CreatedAt() time.Time { return p.createdAt }
func (p *Provider) UpdatedAt() time.Time { return p.updatedAt }
