package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/allocq/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// StageChangedArgs carries the data needed to process a stage transition
// asynchronously. River serializes this as JSON into its job queue table. It
// includes a snapshot of the order at the time of the transition, so the
// worker never needs to query the database. FromStage is empty for the
// inception event.
type StageChangedArgs struct {
	OrderID   string  `json:"order_id"`
	UserID    string  `json:"user_id"`
	OfferID   string  `json:"offer_id"`
	FromStage string  `json:"from_stage,omitempty"`
	ToStage   string  `json:"to_stage"`
	Note      string  `json:"note,omitempty"`
	Shares    int     `json:"shares"`
	TotalCost float64 `json:"total_cost"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (StageChangedArgs) Kind() string { return "order.stage_changed" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a stage transition as an async job in River.
func (p *Publisher) Publish(ctx context.Context, order domain.Order, entry domain.StageEntry) error {
	fromStage := ""
	if entry.FromStage != nil {
		fromStage = string(*entry.FromStage)
	}

	_, err := p.client.Insert(ctx, StageChangedArgs{
		OrderID:   order.ID,
		UserID:    order.UserID,
		OfferID:   order.OfferID,
		FromStage: fromStage,
		ToStage:   string(entry.ToStage),
		Note:      entry.Note,
		Shares:    order.SharesRequested,
		TotalCost: order.TotalCost,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing stage event job: %w", err)
	}
	return nil
}
