package jobs

import (
	"context"

	"db-compare/core/reconcile"
)

// DiscoverTables returns the sorted tables the job visits, read from the primary.
func (r *Router) DiscoverTables(ctx context.Context, job reconcile.Job) ([]reconcile.TableSpec, error) {
	names, err := discover(ctx, r.Sources.Primary, job)
	if err != nil {
		return nil, err
	}
	specs := make([]reconcile.TableSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, job.Table(name, r.Cutoff))
	}
	return specs, nil
}

func discover(ctx context.Context, cat reconcile.Catalog, job reconcile.Job) ([]string, error) {
	switch job {
	case reconcile.JobCounters:
		return cat.AllTables(ctx)
	case reconcile.JobCreatedAts:
		created, err := cat.TablesWithColumn(ctx, reconcile.ColumnCreatedAt)
		if err != nil {
			return nil, err
		}
		updated, err := cat.TablesWithColumn(ctx, reconcile.ColumnUpdatedAt)
		if err != nil {
			return nil, err
		}
		return subtract(created, updated), nil
	case reconcile.JobSequences:
		return nil, nil
	}

	cols := job.Columns()
	if len(cols) == 1 {
		return cat.TablesWithColumn(ctx, cols[0])
	}
	return cat.TablesWithColumns(ctx, cols)
}

// subtract keeps the tables of a not in b, preserving a's order.
func subtract(a, b []string) []string {
	drop := make(map[string]struct{}, len(b))
	for _, t := range b {
		drop[t] = struct{}{}
	}
	out := make([]string, 0, len(a))
	for _, t := range a {
		if _, ok := drop[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}
