package domain

import "time"

// OfferStatus represents whether an offer still accepts orders.
type OfferStatus string

const (
	OfferOpen   OfferStatus = "open"
	OfferClosed OfferStatus = "closed"
)

// Offer is a company's pre-IPO share allocation pool available for purchase.
// AvailableShares is the only mutable field: it is decremented when orders are
// created and never incremented back (there is no cancellation/refund path).
// Invariant: 0 <= AvailableShares <= TotalShares.
type Offer struct {
	ID              string
	CompanyName     string
	Ticker          string
	Description     string
	Sector          string
	PricePerShare   float64
	TotalShares     int
	AvailableShares int
	IPODate         time.Time
	Status          OfferStatus
	CreatedAt       time.Time
}

// NewOffer creates an open offer with its full share pool available.
func NewOffer(id, companyName, ticker, description, sector string, pricePerShare float64, totalShares int, ipoDate time.Time) Offer {
	return Offer{
		ID:              id,
		CompanyName:     companyName,
		Ticker:          ticker,
		Description:     description,
		Sector:          sector,
		PricePerShare:   pricePerShare,
		TotalShares:     totalShares,
		AvailableShares: totalShares,
		IPODate:         ipoDate,
		Status:          OfferOpen,
		CreatedAt:       time.Now().UTC(),
	}
}
