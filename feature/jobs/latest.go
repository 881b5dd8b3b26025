package jobs

import (
	"context"
	"fmt"

	"db-compare/core/reconcile"
)

// compareLatest compares the newest rows of table by the job's ordering
// column. For updated_at it also compares the "id : updated_at" pairs.
func (r *Router) compareLatest(ctx context.Context, job reconcile.Job, table reconcile.TableSpec) error {
	column := table.OrderColumn
	q := reconcile.WindowQuery(table.Name, column, reconcile.Before(table.Cutoff), r.Limit)

	a, b, err := reconcile.FetchBoth(ctx, r.Sources, func(ctx context.Context, e reconcile.Endpoint) (reconcile.Rows, error) {
		return e.Rows(ctx, q)
	})
	if err != nil {
		return err
	}

	header := fmt.Sprintf("`%s` latest %d rows by `%s` %s", table.Name, r.Limit, column, q.Bound)
	if err := r.compareRows(job, table, header, a, b, nil); err != nil {
		return err
	}

	if job != reconcile.JobUpdatedAts {
		return nil
	}

	cq := reconcile.ColumnValuesQuery(table.Name, column, q.Bound, r.Limit)
	va, vb, err := reconcile.FetchBoth(ctx, r.Sources, func(ctx context.Context, e reconcile.Endpoint) ([]string, error) {
		return e.ColumnValues(ctx, cq)
	})
	if err != nil {
		return err
	}
	return r.Sink.Write(reconcile.RenderScalars(fmt.Sprintf("`%s` %s values", table.Name, column), va, vb, r.ListDiffer))
}
