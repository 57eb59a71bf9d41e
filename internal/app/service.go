package app

import (
	"context"
	"fmt"
	"time"

	"github.com/neomorfeo/allocq/internal/domain"
)

// OrderService orchestrates the order lifecycle: creation against a finite
// share pool, stage advancement, and detail retrieval. Atomicity of each write
// (order row + inventory + history) is delegated to the repository; this layer
// owns precondition checks, transition validation, and event publication.
type OrderService struct {
	orders    domain.OrderRepository
	offers    domain.OfferRepository
	validator domain.TransitionValidator
	publisher domain.EventPublisher
}

// NewOrderService creates a service with the given adapters.
func NewOrderService(orders domain.OrderRepository, offers domain.OfferRepository, validator domain.TransitionValidator, publisher domain.EventPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		offers:    offers,
		validator: validator,
		publisher: publisher,
	}
}

// OrderDetail bundles an order with its owning offer and full stage history.
type OrderDetail struct {
	Order   domain.Order
	Offer   domain.Offer
	History []domain.StageEntry
}

// Create places an order against an offer's share pool. The offer must exist,
// be open, and have at least sharesRequested shares available. Total cost is
// locked in from the offer's current price per share. The order row, the
// inventory decrement, and the inception history entry commit as one unit;
// any precondition failure leaves no observable state.
func (s *OrderService) Create(ctx context.Context, userID, offerID string, sharesRequested int) (domain.Order, error) {
	if sharesRequested < 1 {
		return domain.Order{}, &domain.ValidationError{Reason: "shares requested must be at least 1"}
	}

	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return domain.Order{}, err
	}

	if offer.Status != domain.OfferOpen {
		return domain.Order{}, &domain.ValidationError{Reason: "offer is not open"}
	}

	if offer.AvailableShares < sharesRequested {
		return domain.Order{}, &domain.ValidationError{Reason: "not enough available shares"}
	}

	orderID, err := generateID()
	if err != nil {
		return domain.Order{}, fmt.Errorf("generating order id: %w", err)
	}
	entryID, err := generateID()
	if err != nil {
		return domain.Order{}, fmt.Errorf("generating history id: %w", err)
	}

	order := domain.NewOrder(orderID, userID, offerID, sharesRequested, offer.PricePerShare)
	entry := domain.NewStageEntry(entryID, orderID, nil, domain.StagePendingReview, "")

	// The repository re-runs the availability check as a guarded decrement,
	// so a concurrent order racing past the read above still cannot overdraw
	// the pool.
	if err := s.orders.Create(ctx, order, entry); err != nil {
		return domain.Order{}, err
	}

	if err := s.publisher.Publish(ctx, order, entry); err != nil {
		return domain.Order{}, fmt.Errorf("publishing stage event: %w", err)
	}

	return order, nil
}

// List returns the user's orders, newest first, optionally filtered to one
// stage. Orders belonging to other users are never returned.
func (s *OrderService) List(ctx context.Context, userID string, stage *domain.Stage) ([]domain.Order, error) {
	return s.orders.List(ctx, userID, domain.OrderFilter{Stage: stage})
}

// Detail returns an order with its offer and time-ordered stage history.
// A missing order and another user's order are indistinguishable: both are
// ErrOrderNotFound.
func (s *OrderService) Detail(ctx context.Context, userID, orderID string) (OrderDetail, error) {
	order, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return OrderDetail{}, err
	}

	offer, err := s.offers.GetByID(ctx, order.OfferID)
	if err != nil {
		return OrderDetail{}, fmt.Errorf("loading offer for order %s: %w", orderID, err)
	}

	history, err := s.orders.History(ctx, orderID)
	if err != nil {
		return OrderDetail{}, fmt.Errorf("loading history for order %s: %w", orderID, err)
	}

	return OrderDetail{Order: order, Offer: offer, History: history}, nil
}

// Advance moves an order to the requested stage. The transition must be a
// legal edge from the current stage; entering ALLOCATED additionally
// re-verifies share availability inside the repository's transaction (a second
// admission check, not a second decrement). The stage update and its history
// entry commit as one unit.
func (s *OrderService) Advance(ctx context.Context, userID, orderID string, toStage domain.Stage, note string) (domain.Order, error) {
	order, err := s.orders.GetByID(ctx, userID, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.validator.Validate(ctx, order.Stage, toStage); err != nil {
		return domain.Order{}, err
	}

	entryID, err := generateID()
	if err != nil {
		return domain.Order{}, fmt.Errorf("generating history id: %w", err)
	}

	fromStage := order.Stage
	order.Stage = toStage
	order.UpdatedAt = time.Now().UTC()

	entry := domain.NewStageEntry(entryID, order.ID, &fromStage, toStage, note)

	if err := s.orders.Advance(ctx, order, entry); err != nil {
		return domain.Order{}, err
	}

	if err := s.publisher.Publish(ctx, order, entry); err != nil {
		return domain.Order{}, fmt.Errorf("publishing stage event: %w", err)
	}

	return order, nil
}
