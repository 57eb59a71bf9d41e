package domain

import "context"

// OfferRepository defines the persistence contract for offers. Create exists
// for the seed/admin path; the order pipeline itself only reads offers, and
// decrements available shares through OrderRepository's atomic operations.
type OfferRepository interface {
	Create(ctx context.Context, offer Offer) error
	GetByID(ctx context.Context, id string) (Offer, error)
	List(ctx context.Context, filter OfferFilter) ([]Offer, error)
}

// OfferFilter holds optional criteria for listing offers.
type OfferFilter struct {
	Status *OfferStatus
	Sector string
}

// OrderRepository defines the persistence contract for orders and their stage
// history. Create and Advance are atomic units: either every sub-write commits
// (order row, inventory decrement, history entry) or none do.
//
// Create performs the inventory decrement as a guarded update; if the offer is
// no longer open or the requested shares exceed current availability it
// returns a ValidationError and leaves no state behind. Advance re-verifies
// availability inside the same transaction when the order is entering
// ALLOCATED, without decrementing again.
//
// GetByID and List are scoped to the owning user in the query itself;
// another user's order id behaves exactly like a missing one.
type OrderRepository interface {
	Create(ctx context.Context, order Order, entry StageEntry) error
	GetByID(ctx context.Context, userID, orderID string) (Order, error)
	List(ctx context.Context, userID string, filter OrderFilter) ([]Order, error)
	History(ctx context.Context, orderID string) ([]StageEntry, error)
	Advance(ctx context.Context, order Order, entry StageEntry) error
	Stats(ctx context.Context, userID string) (DashboardStats, error)
}

// OrderFilter holds optional criteria for listing a user's orders.
type OrderFilter struct {
	Stage *Stage
}

// UserRepository persists identities resolved by the external auth layer.
type UserRepository interface {
	Upsert(ctx context.Context, user User) error
}

// EventPublisher defines the contract for emitting stage-change events.
type EventPublisher interface {
	Publish(ctx context.Context, order Order, entry StageEntry) error
}

// TransitionValidator checks stage-change legality against the transition
// table. Validate returns a TransitionError for illegal edges.
type TransitionValidator interface {
	Validate(ctx context.Context, from, to Stage) error
}
