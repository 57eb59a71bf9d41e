package river_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	goriver "github.com/riverqueue/river"

	_ "modernc.org/sqlite"

	riveradapter "github.com/neomorfeo/allocq/internal/adapter/river"
	"github.com/neomorfeo/allocq/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := t.TempDir() + "/river_test.db"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		t.Fatalf("setting WAL: %v", err)
	}

	return db
}

func setupClient(t *testing.T, db *sql.DB) *riveradapter.Client {
	t.Helper()

	client, err := riveradapter.Setup(context.Background(), db)
	if err != nil {
		t.Fatalf("river setup: %v", err)
	}

	return client
}

func startClient(t *testing.T, client *riveradapter.Client) <-chan *goriver.Event {
	t.Helper()
	ctx := context.Background()

	// Subscribe to job completions before starting so we don't miss events.
	subscribeChan, subscribeCancel := client.Subscribe(goriver.EventKindJobCompleted)
	t.Cleanup(subscribeCancel)

	if err := client.Start(ctx); err != nil {
		t.Fatalf("river start: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Stop(stopCtx); err != nil {
			t.Errorf("river stop: %v", err)
		}
	})

	return subscribeChan
}

func TestPublisher_Publish_EnqueuesJob(t *testing.T) {
	db := setupTestDB(t)
	client := setupClient(t, db)
	subscribeChan := startClient(t, client)
	ctx := context.Background()

	pub := riveradapter.NewPublisher(client)
	order := domain.NewOrder("o-1", "u-1", "off-1", 10, 25.5)
	entry := domain.NewStageEntry("h-1", "o-1", nil, domain.StagePendingReview, "")

	if err := pub.Publish(ctx, order, entry); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// Wait for the worker to process the job.
	select {
	case event := <-subscribeChan:
		if event.Job.Kind != "order.stage_changed" {
			t.Errorf("job kind = %q, want %q", event.Job.Kind, "order.stage_changed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}
}

func TestPublisher_Publish_PreservesTransitionData(t *testing.T) {
	db := setupTestDB(t)
	client := setupClient(t, db)
	subscribeChan := startClient(t, client)
	ctx := context.Background()

	pub := riveradapter.NewPublisher(client)
	order := domain.NewOrder("o-42", "u-7", "off-9", 100, 31.0)
	order.Stage = domain.StageAllocated
	from := domain.StageApproved
	entry := domain.NewStageEntry("h-42", "o-42", &from, domain.StageAllocated, "allocation confirmed")

	if err := pub.Publish(ctx, order, entry); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case event := <-subscribeChan:
		// Verify the job carried the right args by checking the encoded JSON.
		args := event.Job.EncodedArgs
		if args == nil {
			t.Fatal("expected encoded args, got nil")
		}
		argsStr := string(args)
		for _, want := range []string{
			`"order_id":"o-42"`,
			`"user_id":"u-7"`,
			`"from_stage":"APPROVED"`,
			`"to_stage":"ALLOCATED"`,
			`"note":"allocation confirmed"`,
			`"shares":100`,
		} {
			if !strings.Contains(argsStr, want) {
				t.Errorf("encoded args missing %s, got: %s", want, argsStr)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}
}

func TestPublisher_Publish_OmitsEmptyFromStage(t *testing.T) {
	db := setupTestDB(t)
	client := setupClient(t, db)
	subscribeChan := startClient(t, client)
	ctx := context.Background()

	pub := riveradapter.NewPublisher(client)
	order := domain.NewOrder("o-2", "u-1", "off-1", 5, 10)
	entry := domain.NewStageEntry("h-2", "o-2", nil, domain.StagePendingReview, "")

	if err := pub.Publish(ctx, order, entry); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case event := <-subscribeChan:
		argsStr := string(event.Job.EncodedArgs)
		if strings.Contains(argsStr, "from_stage") {
			t.Errorf("inception event should omit from_stage, got: %s", argsStr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}
}
