package domain

import "time"

// Order is one investor's request to purchase shares of one offer. Orders are
// owned exclusively by the requesting user; SharesRequested and TotalCost are
// fixed at creation and never recomputed.
type Order struct {
	ID              string
	UserID          string
	OfferID         string
	SharesRequested int
	TotalCost       float64
	Stage           Stage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder creates an order in the initial PENDING_REVIEW stage. Total cost is
// locked in from the offer's price per share at this moment.
func NewOrder(id, userID, offerID string, sharesRequested int, pricePerShare float64) Order {
	now := time.Now().UTC()
	return Order{
		ID:              id,
		UserID:          userID,
		OfferID:         offerID,
		SharesRequested: sharesRequested,
		TotalCost:       float64(sharesRequested) * pricePerShare,
		Stage:           StagePendingReview,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// StageEntry is one immutable record of a stage transition. FromStage is nil
// only for the entry written at order inception. Entries are append-only: the
// ascending sequence of an order's entries reconstructs its full path, and the
// most recent entry's ToStage always equals the order's current stage.
type StageEntry struct {
	ID        string
	OrderID   string
	FromStage *Stage
	ToStage   Stage
	Note      string
	ChangedAt time.Time
}

// NewStageEntry creates a history entry timestamped now.
func NewStageEntry(id, orderID string, fromStage *Stage, toStage Stage, note string) StageEntry {
	return StageEntry{
		ID:        id,
		OrderID:   orderID,
		FromStage: fromStage,
		ToStage:   toStage,
		Note:      note,
		ChangedAt: time.Now().UTC(),
	}
}
