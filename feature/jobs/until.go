package jobs

import (
	"context"
	"fmt"

	"db-compare/core/reconcile"
)

// compareUntil pages table from the cutoff back to its oldest row.
func (r *Router) compareUntil(ctx context.Context, job reconcile.Job, table reconcile.TableSpec) error {
	column := table.OrderColumn
	cur, err := reconcile.NewTimestampCursor(column, table.Cutoff, r.Limit)
	if err != nil {
		return err
	}

	for !cur.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}

		q := cur.Query(table.Name)
		a, b, err := reconcile.FetchBoth(ctx, r.Sources, func(ctx context.Context, e reconcile.Endpoint) (reconcile.Rows, error) {
			return e.Rows(ctx, q)
		})
		if err != nil {
			return err
		}

		header := fmt.Sprintf("`%s` rows where `%s` is %s", table.Name, column, q.Bound)
		a, b, err = cur.Advance(a, b)
		if err != nil {
			return err
		}
		if len(a) == 0 && len(b) == 0 {
			continue
		}
		if err := r.compareRows(job, table, header, a, b, nil); err != nil {
			return err
		}
	}
	return nil
}
