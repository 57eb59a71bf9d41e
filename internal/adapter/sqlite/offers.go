package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/allocq/internal/domain"
)

// Compile-time check: OfferRepository implements domain.OfferRepository.
var _ domain.OfferRepository = (*OfferRepository)(nil)

// OfferRepository implements domain.OfferRepository using SQLite.
type OfferRepository struct {
	db *sql.DB
}

func (r *OfferRepository) Create(ctx context.Context, o domain.Offer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO offers (id, company_name, ticker, description, sector,
		                     price_per_share, total_shares, available_shares,
		                     ipo_date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.CompanyName, o.Ticker, o.Description, o.Sector,
		o.PricePerShare, o.TotalShares, o.AvailableShares,
		o.IPODate.Format(dateFormat), string(o.Status), formatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting offer: %w", err)
	}
	return nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id string) (domain.Offer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, company_name, ticker, description, sector, price_per_share,
		        total_shares, available_shares, ipo_date, status, created_at
		 FROM offers WHERE id = ?`, id,
	)
	return scanOffer(row.Scan)
}

func (r *OfferRepository) List(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, error) {
	query := `SELECT id, company_name, ticker, description, sector, price_per_share,
	                 total_shares, available_shares, ipo_date, status, created_at
	          FROM offers`
	var clauses []string
	var args []any

	if filter.Status != nil {
		clauses = append(clauses, `status = ?`)
		args = append(args, string(*filter.Status))
	}
	if filter.Sector != "" {
		clauses = append(clauses, `sector = ?`)
		args = append(args, filter.Sector)
	}
	for i, c := range clauses {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY ipo_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows.Scan)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}

	return offers, rows.Err()
}

// scanOffer scans one offer row via the given Scan function (works for both
// *sql.Row and *sql.Rows).
func scanOffer(scan func(...any) error) (domain.Offer, error) {
	var o domain.Offer
	var status, ipoDate, createdAt string

	err := scan(&o.ID, &o.CompanyName, &o.Ticker, &o.Description, &o.Sector,
		&o.PricePerShare, &o.TotalShares, &o.AvailableShares,
		&ipoDate, &status, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Offer{}, domain.ErrOfferNotFound
		}
		return domain.Offer{}, fmt.Errorf("scanning offer: %w", err)
	}

	o.Status = domain.OfferStatus(status)
	if o.IPODate, err = time.Parse(dateFormat, ipoDate); err != nil {
		return domain.Offer{}, fmt.Errorf("parsing stored ipo date %q: %w", ipoDate, err)
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Offer{}, err
	}

	return o, nil
}
