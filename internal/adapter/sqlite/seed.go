package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/neomorfeo/allocq/internal/domain"
)

// SeedDemo loads a small demo catalog for local development: two users and
// five open offers. It is idempotent per ticker and skips seeding when offers
// already exist.
func (s *Store) SeedDemo(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM offers`).Scan(&n); err != nil {
		return fmt.Errorf("checking existing offers: %w", err)
	}
	if n > 0 {
		return nil
	}

	users := s.Users()
	for _, u := range []domain.User{
		{ID: "demo-alice", Email: "alice@example.com", Name: "Alice Johnson"},
		{ID: "demo-bob", Email: "bob@example.com", Name: "Bob Smith"},
	} {
		if err := users.Upsert(ctx, u); err != nil {
			return err
		}
	}

	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	offers := s.Offers()
	demo := []domain.Offer{
		newDemoOffer("demo-ntai", "NovaTech AI", "NTAI", "AI-powered enterprise solutions", "Technology", 24.5, 1_000_000, 750_000, date(2026, 3, 15)),
		newDemoOffer("demo-gpls", "GreenPulse Energy", "GPLS", "Renewable energy infrastructure", "Clean Energy", 18.75, 2_000_000, 1_800_000, date(2026, 4, 1)),
		newDemoOffer("demo-mvht", "MedVault Health", "MVHT", "Healthcare data management platform", "Healthcare", 31.0, 500_000, 420_000, date(2026, 3, 20)),
		newDemoOffer("demo-qldg", "QuantumLedger", "QLDG", "Blockchain-based financial services", "Fintech", 42.0, 750_000, 600_000, date(2026, 5, 10)),
		newDemoOffer("demo-anst", "AeroNest Logistics", "ANST", "Drone-based delivery logistics", "Logistics", 15.25, 3_000_000, 2_500_000, date(2026, 4, 15)),
	}
	for _, o := range demo {
		if err := offers.Create(ctx, o); err != nil {
			return err
		}
	}

	return nil
}

func newDemoOffer(id, companyName, ticker, description, sector string, price float64, total, available int, ipoDate time.Time) domain.Offer {
	o := domain.NewOffer(id, companyName, ticker, description, sector, price, total, ipoDate)
	o.AvailableShares = available
	return o
}
