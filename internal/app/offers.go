package app

import (
	"context"

	"github.com/neomorfeo/allocq/internal/domain"
)

// OfferService exposes the read-side offer catalog plus the seed/admin
// creation path. Offer reads outside a write transaction may be slightly
// stale; the authoritative availability check lives in the order write path.
type OfferService struct {
	offers domain.OfferRepository
}

// NewOfferService creates a service with the given repository.
func NewOfferService(offers domain.OfferRepository) *OfferService {
	return &OfferService{offers: offers}
}

// List returns offers filtered by status and sector. Status defaults to open:
// closed offers are only shown when asked for.
func (s *OfferService) List(ctx context.Context, status *domain.OfferStatus, sector string) ([]domain.Offer, error) {
	if status == nil {
		open := domain.OfferOpen
		status = &open
	}
	return s.offers.List(ctx, domain.OfferFilter{Status: status, Sector: sector})
}

// GetByID returns an offer by its unique identifier.
func (s *OfferService) GetByID(ctx context.Context, id string) (domain.Offer, error) {
	return s.offers.GetByID(ctx, id)
}

// Create persists a new offer with its full share pool available.
func (s *OfferService) Create(ctx context.Context, offer domain.Offer) error {
	return s.offers.Create(ctx, offer)
}
