package tasks

import (
	"context"
	"fmt"
	"time"
)

// newRetentionTask creates the scheduled task that prunes messages older
// than the configured retention window. A retention of zero days disables
// pruning.
func newRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "retention")

	return func(ctx context.Context) error {
		days := deps.Config.Database.RetentionDays
		if days <= 0 {
			log.DebugContext(ctx, "Retention disabled, skipping")
			return nil
		}

		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		deleted, err := deps.Store.DeleteMessagesBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("pruning messages before %s: %w", cutoff.Format(time.RFC3339), err)
		}

		log.InfoContext(ctx, "Pruned old messages", "deleted", deleted, "cutoff", cutoff)
		return nil
	}
}
