package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/allocq/internal/domain"
)

const tracerName = "github.com/neomorfeo/allocq/internal/adapter/otel"

// TracingOrderRepository wraps a domain.OrderRepository with OpenTelemetry
// tracing. Each method creates a span with semantic attributes and records
// errors.
type TracingOrderRepository struct {
	next   domain.OrderRepository
	tracer trace.Tracer
}

// Compile-time check: TracingOrderRepository implements domain.OrderRepository.
var _ domain.OrderRepository = (*TracingOrderRepository)(nil)

// NewTracingOrderRepository creates a tracing decorator around the given repository.
func NewTracingOrderRepository(next domain.OrderRepository) *TracingOrderRepository {
	return &TracingOrderRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingOrderRepository) Create(ctx context.Context, order domain.Order, entry domain.StageEntry) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Create",
		trace.WithAttributes(
			attribute.String("order.id", order.ID),
			attribute.String("user.id", order.UserID),
			attribute.String("offer.id", order.OfferID),
			attribute.Int("order.shares", order.SharesRequested),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, order, entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingOrderRepository) GetByID(ctx context.Context, userID, orderID string) (domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByID",
		trace.WithAttributes(
			attribute.String("order.id", orderID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	order, err := r.next.GetByID(ctx, userID, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return order, err
}

func (r *TracingOrderRepository) List(ctx context.Context, userID string, filter domain.OrderFilter) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.List",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if filter.Stage != nil {
		span.SetAttributes(attribute.String("filter.stage", string(*filter.Stage)))
	}

	orders, err := r.next.List(ctx, userID, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(orders)))
	}
	return orders, err
}

func (r *TracingOrderRepository) History(ctx context.Context, orderID string) ([]domain.StageEntry, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.History",
		trace.WithAttributes(attribute.String("order.id", orderID)),
	)
	defer span.End()

	entries, err := r.next.History(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(entries)))
	}
	return entries, err
}

func (r *TracingOrderRepository) Advance(ctx context.Context, order domain.Order, entry domain.StageEntry) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Advance",
		trace.WithAttributes(
			attribute.String("order.id", order.ID),
			attribute.String("user.id", order.UserID),
			attribute.String("order.stage", string(order.Stage)),
		),
	)
	defer span.End()

	err := r.next.Advance(ctx, order, entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingOrderRepository) Stats(ctx context.Context, userID string) (domain.DashboardStats, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Stats",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	stats, err := r.next.Stats(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.total_orders", stats.TotalOrders))
	}
	return stats, err
}
