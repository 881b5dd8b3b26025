package jobs

import (
	"context"
	"fmt"
	"time"

	"db-compare/core/logger"
	"db-compare/core/reconcile"

	"go.uber.org/zap"
)

// compareByID walks table from the primary's max id down to zero.
// The exclusion variant skips ids the secondary updated at or after the cutoff.
func (r *Router) compareByID(ctx context.Context, job reconcile.Job, table reconcile.TableSpec) error {
	l := logger.WithTable(r.log(), job.String(), table.Name)

	var excluded map[string]struct{}
	if job == reconcile.JobByIDExcludingReplicaUpdatedAts {
		if err := r.Sink.Comment(fmt.Sprintf("Excluding replica updated_ats at cutoff: %s", table.Cutoff.UTC().Format(time.DateTime))); err != nil {
			return err
		}
		ids, err := r.Sources.Secondary.IDsUpdatedSince(ctx, table.Name, reconcile.ColumnUpdatedAt, table.Cutoff)
		if err != nil {
			return err
		}
		excluded = reconcile.KeySet(ids)
		l.Debug("Excluding recently updated ids", zap.Int("count", len(ids)))
	}

	upper, err := r.Sources.Primary.MaxID(ctx, table.Name)
	if err != nil {
		return err
	}
	cur, err := reconcile.NewIDCursor(upper, int64(r.Limit))
	if err != nil {
		return err
	}

	bar := r.newBar(table.Name, upper)
	defer bar.finish()

	var counters reconcile.Counters
	for {
		if reconcile.ShouldStop(counters, r.SampleCap) {
			l.Info("Sample cap reached", zap.Int64("sample_cap", r.SampleCap), zap.Int("windows", counters.Windows))
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		bound, ok := cur.Next()
		if !ok {
			return nil
		}

		a, b, err := reconcile.FetchBoth(ctx, r.Sources, func(ctx context.Context, e reconcile.Endpoint) (reconcile.Rows, error) {
			return e.Rows(ctx, reconcile.IDRangeQuery(table.Name, bound.Lower, bound.Upper))
		})
		if err != nil {
			return err
		}
		counters.Windows++
		counters.Rows += bound.Upper - bound.Lower

		header := fmt.Sprintf("`%s` %s", table.Name, bound)
		if err := r.compareRows(job, table, header, a, b, excluded); err != nil {
			return err
		}
		bar.increment()
	}
}
