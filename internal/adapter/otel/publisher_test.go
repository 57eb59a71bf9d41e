package otel_test

import (
	"context"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel/codes"

	adapter "github.com/neomorfeo/allocq/internal/adapter/otel"
	"github.com/neomorfeo/allocq/internal/domain"
)

// --- Mock publisher ---

type mockPublisher struct {
	published []publishedEvent
}

type publishedEvent struct {
	order domain.Order
	entry domain.StageEntry
}

func (m *mockPublisher) Publish(_ context.Context, o domain.Order, e domain.StageEntry) error {
	m.published = append(m.published, publishedEvent{order: o, entry: e})
	return nil
}

type failingPublisher struct{}

func (p *failingPublisher) Publish(_ context.Context, _ domain.Order, _ domain.StageEntry) error {
	return fmt.Errorf("publish failed")
}

// --- Tests ---

func TestTracingPublisher_Publish_RecordsSpan(t *testing.T) {
	exporter := setupTestTracer(t)
	inner := &mockPublisher{}
	pub := adapter.NewTracingPublisher(inner)

	order := domain.NewOrder("o-1", "u-1", "f-1", 10, 25.5)
	from := domain.StagePendingReview
	entry := domain.NewStageEntry("h-1", order.ID, &from, domain.StageComplianceCheck, "")
	if err := pub.Publish(context.Background(), order, entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "EventPublisher.Publish" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "EventPublisher.Publish")
	}

	assertAttribute(t, spans[0], "order.id", "o-1")
	assertAttribute(t, spans[0], "user.id", "u-1")
	assertAttribute(t, spans[0], "stage.from", "PENDING_REVIEW")
	assertAttribute(t, spans[0], "stage.to", "COMPLIANCE_CHECK")

	if len(inner.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(inner.published))
	}
}

func TestTracingPublisher_Publish_RecordsError(t *testing.T) {
	exporter := setupTestTracer(t)
	pub := adapter.NewTracingPublisher(&failingPublisher{})

	order := domain.NewOrder("o-1", "u-1", "f-1", 10, 25.5)
	entry := domain.NewStageEntry("h-1", order.ID, nil, order.Stage, "order created")
	err := pub.Publish(context.Background(), order, entry)
	if err == nil {
		t.Fatal("expected error")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", spans[0].Status.Code, codes.Error)
	}
}
