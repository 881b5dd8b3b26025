package jobs

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"db-compare/core/reconcile"
)

const notSet = "Not set"

func (r *Router) compareCount(ctx context.Context, job reconcile.Job, table reconcile.TableSpec) error {
	a, b, err := reconcile.FetchBoth(ctx, r.Sources, func(ctx context.Context, e reconcile.Endpoint) (int64, error) {
		return e.Count(ctx, table.Name)
	})
	if err != nil {
		return err
	}

	rec := reconcile.RenderScalars(
		fmt.Sprintf("`%s` count", table.Name),
		[]string{strconv.FormatInt(a, 10)},
		[]string{strconv.FormatInt(b, 10)},
		r.RowDiffer,
	)
	return r.Sink.Write(rec)
}

// compareSequences writes one record per primary sequence, sorted by name.
// A sequence missing on the secondary compares against "Not set".
func (r *Router) compareSequences(ctx context.Context) error {
	job := reconcile.JobSequences
	if err := r.Sink.StartBlock(job.String(), "sequences"); err != nil {
		return err
	}

	err := r.writeSequences(ctx)
	if endErr := r.Sink.EndBlock(job.String(), "sequences"); err == nil {
		err = endErr
	}
	return err
}

func (r *Router) writeSequences(ctx context.Context) error {
	a, b, err := reconcile.FetchBoth(ctx, r.Sources, func(ctx context.Context, e reconcile.Endpoint) ([]reconcile.Sequence, error) {
		return e.Sequences(ctx)
	})
	if err != nil {
		return err
	}

	sort.Slice(a, func(i, j int) bool { return a[i].Name < a[j].Name })
	replica := make(map[string]reconcile.Sequence, len(b))
	for _, s := range b {
		replica[s.Name] = s
	}

	for _, seq := range a {
		theirs := notSet
		if s, ok := replica[seq.Name]; ok {
			theirs = sequenceValue(s)
		}
		rec := reconcile.RenderScalars(
			fmt.Sprintf("`%s` sequence:", seq.Name),
			[]string{sequenceValue(seq)},
			[]string{theirs},
			r.RowDiffer,
		)
		if err := r.Sink.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func sequenceValue(s reconcile.Sequence) string {
	if s.LastValue == nil {
		return notSet
	}
	return strconv.FormatInt(*s.LastValue, 10)
}

func tableListBlock(job reconcile.Job) string {
	return "tables_with_" + job.OrderColumn()
}

func tableListHeader(job reconcile.Job) string {
	if job == reconcile.JobCreatedAts {
		return "Tables with `created_at` column but not `updated_at`"
	}
	return fmt.Sprintf("Tables with `%s` column", job.OrderColumn())
}

// compareTableLists diffs the job's discovered tables between the two sources.
func (r *Router) compareTableLists(ctx context.Context, job reconcile.Job) error {
	block := tableListBlock(job)
	if err := r.Sink.StartBlock(job.String(), block); err != nil {
		return err
	}

	a, b, err := reconcile.FetchBoth(ctx, r.Sources, func(ctx context.Context, e reconcile.Endpoint) ([]string, error) {
		return discover(ctx, e, job)
	})
	if err == nil {
		err = r.Sink.Write(reconcile.RenderScalars(tableListHeader(job), a, b, r.ListDiffer))
	}

	if endErr := r.Sink.EndBlock(job.String(), block); err == nil {
		err = endErr
	}
	return err
}
