package validation

import (
	"context"
	"time"

	"lookbook-server-go/internal/domain/catalog/aggregate"
)

// RevalidateFailed selects products whose validation failed before the age
// threshold and resubmits them with the force flag. Pure selection plus
// delegation; the run itself is owned by RunValidation.
func (o *Orchestrator) RevalidateFailed(ctx context.Context, daysOld, batchSize int) Result {
	if daysOld <= 0 {
		daysOld = o.cfg.RevalidateAfterDays
	}
	if batchSize <= 0 {
		batchSize = o.cfg.RevalidateBatchSize
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -daysOld)

	ids, err := o.repo.FindFailedBefore(ctx, cutoff, batchSize)
	if err != nil {
		o.logger.Error("revalidation selection failed: %v", err)
		return Result{
			Status:    StatusError,
			Message:   aggregate.Truncate(err.Error(), aggregate.MaxStoredErrorLen),
			Timestamp: time.Now().UTC(),
		}
	}
	if len(ids) == 0 {
		o.logger.Info("revalidation: no products older than %d days", daysOld)
		return Result{Status: StatusSuccess, Timestamp: time.Now().UTC()}
	}

	o.logger.Info("revalidation: resubmitting %d products older than %d days", len(ids), daysOld)
	return o.RunValidation(ctx, Params{
		ProductIDs:      ids,
		ForceRevalidate: true,
	})
}
