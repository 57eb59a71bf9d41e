package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// StageEventWorker processes stage transition jobs from the River queue.
// For now it logs the transition; future versions will dispatch investor
// notifications and settlement webhooks.
type StageEventWorker struct {
	river.WorkerDefaults[StageChangedArgs]
}

// Work processes a single stage transition job.
func (w *StageEventWorker) Work(ctx context.Context, job *river.Job[StageChangedArgs]) error {
	slog.InfoContext(ctx, "processing stage transition",
		"order_id", job.Args.OrderID,
		"user_id", job.Args.UserID,
		"from_stage", job.Args.FromStage,
		"to_stage", job.Args.ToStage,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
