package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/neomorfeo/allocq/internal/domain"
)

// Compile-time check: OrderRepository implements domain.OrderRepository.
var _ domain.OrderRepository = (*OrderRepository)(nil)

// OrderRepository implements domain.OrderRepository using SQLite. Its write
// methods are single transactions: no partial state survives a failure.
type OrderRepository struct {
	db *sql.DB
}

// Create inserts the order, decrements the offer's available shares, and
// appends the inception history entry in one transaction. The decrement is a
// guarded UPDATE: it only fires while the offer is open and has enough shares
// left, so two concurrent orders cannot jointly overdraw the pool.
func (r *OrderRepository) Create(ctx context.Context, order domain.Order, entry domain.StageEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE offers SET available_shares = available_shares - ?
		 WHERE id = ? AND status = 'open' AND available_shares >= ?`,
		order.SharesRequested, order.OfferID, order.SharesRequested,
	)
	if err != nil {
		return fmt.Errorf("decrementing available shares: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		// The offer vanished, closed, or lost these shares to a concurrent
		// order since the caller's precondition read.
		return &domain.ValidationError{Reason: "not enough available shares"}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, offer_id, shares_requested, total_cost,
		                     stage, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.OfferID, order.SharesRequested,
		order.TotalCost, string(order.Stage),
		formatTime(order.CreatedAt), formatTime(order.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	if err := appendEntry(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order creation: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, userID, orderID string) (domain.Order, error) {
	// Ownership scoping happens here, not post-hoc: a foreign order id scans
	// as no rows.
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, offer_id, shares_requested, total_cost, stage,
		        created_at, updated_at
		 FROM orders WHERE id = ? AND user_id = ?`, orderID, userID,
	)
	return scanOrder(row.Scan)
}

func (r *OrderRepository) List(ctx context.Context, userID string, filter domain.OrderFilter) ([]domain.Order, error) {
	query := `SELECT id, user_id, offer_id, shares_requested, total_cost, stage,
	                 created_at, updated_at
	          FROM orders WHERE user_id = ?`
	args := []any{userID}

	if filter.Stage != nil {
		query += ` AND stage = ?`
		args = append(args, string(*filter.Stage))
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *OrderRepository) History(ctx context.Context, orderID string) ([]domain.StageEntry, error) {
	// rowid breaks ties between entries written in the same nanosecond.
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, from_stage, to_stage, note, changed_at
		 FROM order_stage_history
		 WHERE order_id = ?
		 ORDER BY changed_at, rowid`, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stage history: %w", err)
	}
	defer rows.Close()

	var entries []domain.StageEntry
	for rows.Next() {
		var e domain.StageEntry
		var fromStage, note sql.NullString
		var changedAt string

		if err := rows.Scan(&e.ID, &e.OrderID, &fromStage, &e.ToStage, &note, &changedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}

		if fromStage.Valid {
			from := domain.Stage(fromStage.String)
			e.FromStage = &from
		}
		e.Note = note.String
		if e.ChangedAt, err = parseTime(changedAt); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Advance updates the order's stage and appends the transition's history
// entry in one transaction. The stage update is a compare-and-set against
// entry.FromStage, the stage the caller validated the transition from; a
// concurrent advance that committed first makes the guard miss, and the stale
// request fails with a TransitionError naming the stage actually stored. When
// the order is entering ALLOCATED it first re-verifies, inside the same
// transaction, that the offer still holds at least the order's requested
// shares; availability may have been consumed by other orders since creation.
// This is an admission re-check only, never a second decrement.
func (r *OrderRepository) Advance(ctx context.Context, order domain.Order, entry domain.StageEntry) error {
	if entry.FromStage == nil {
		return fmt.Errorf("advancing order %s: entry carries no from-stage to guard on", order.ID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if order.Stage == domain.StageAllocated {
		var available int
		err := tx.QueryRowContext(ctx,
			`SELECT available_shares FROM offers WHERE id = ?`, order.OfferID,
		).Scan(&available)
		if err != nil {
			return fmt.Errorf("re-checking available shares: %w", err)
		}
		if available < order.SharesRequested {
			return &domain.ValidationError{Reason: "not enough available shares for allocation"}
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET stage = ?, updated_at = ? WHERE id = ? AND stage = ?`,
		string(order.Stage), formatTime(order.UpdatedAt), order.ID, string(*entry.FromStage),
	)
	if err != nil {
		return fmt.Errorf("updating order stage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		var current string
		err := tx.QueryRowContext(ctx,
			`SELECT stage FROM orders WHERE id = ?`, order.ID,
		).Scan(&current)
		if err == sql.ErrNoRows {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("reading current stage: %w", err)
		}
		return &domain.TransitionError{From: domain.Stage(current), To: order.Stage}
	}

	if err := appendEntry(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing stage advance: %w", err)
	}
	return nil
}

// appendEntry writes one immutable history row inside the caller's
// transaction. Entries are never updated or deleted.
func appendEntry(ctx context.Context, tx *sql.Tx, e domain.StageEntry) error {
	var fromStage any
	if e.FromStage != nil {
		fromStage = string(*e.FromStage)
	}
	var note any
	if e.Note != "" {
		note = e.Note
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO order_stage_history (id, order_id, from_stage, to_stage, note, changed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.OrderID, fromStage, string(e.ToStage), note, formatTime(e.ChangedAt),
	)
	if err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}
	return nil
}

// scanOrder scans one order row via the given Scan function.
func scanOrder(scan func(...any) error) (domain.Order, error) {
	var o domain.Order
	var stage, createdAt, updatedAt string

	err := scan(&o.ID, &o.UserID, &o.OfferID, &o.SharesRequested, &o.TotalCost,
		&stage, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("scanning order: %w", err)
	}

	o.Stage = domain.Stage(stage)
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Order{}, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Order{}, err
	}

	return o, nil
}
