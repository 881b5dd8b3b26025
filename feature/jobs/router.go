package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"db-compare/core/differ"
	"db-compare/core/logger"
	"db-compare/core/metrics"
	"db-compare/core/output"
	"db-compare/core/reconcile"

	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"
)

// Failure is a job or table that could not be compared.
// Table is empty when table discovery itself failed.
type Failure struct {
	Job   reconcile.Job
	Table string
	Err   error
}

func (f Failure) Error() string {
	if f.Table == "" {
		return fmt.Sprintf("%s: %v", f.Job, f.Err)
	}
	return fmt.Sprintf("%s/%s: %v", f.Job, f.Table, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Router drives every job over its tables and writes diffs to Sink.
type Router struct {
	// Sources are the two endpoints being compared.
	Sources reconcile.Sources
	// Sink receives every diff record.
	Sink output.Sink
	// RowDiffer renders matched rows and scalars.
	RowDiffer differ.Differ
	// ListDiffer renders table lists and column value lists.
	ListDiffer differ.Differ
	// Limit is the window size.
	Limit int
	// SampleCap stops id scans early. Zero scans whole tables.
	SampleCap int64
	// Cutoff is the upper timestamp for timestamp jobs.
	Cutoff time.Time
	// Logger receives progress and failures.
	Logger *zap.Logger
	// Metrics is optional.
	Metrics *metrics.Recorder
	// Progress renders bars for id scans when set.
	Progress *mpb.Progress
}

// Run executes jobs in order. A failing table never stops its job, and a job
// whose discovery fails never stops the next job. Every failure is returned.
// Run stops early only when ctx is cancelled.
func (r *Router) Run(ctx context.Context, jobs []reconcile.Job) []Failure {
	var failures []Failure

	for _, job := range jobs {
		if ctx.Err() != nil {
			failures = append(failures, Failure{Job: job, Err: ctx.Err()})
			break
		}

		start := time.Now()
		r.log().Info("Job started", zap.String("job", job.String()))
		failed := r.runJob(ctx, job)
		r.log().Info("Job finished",
			zap.String("job", job.String()),
			zap.Int("failures", len(failed)),
			zap.Duration("elapsed", time.Since(start)),
		)
		failures = append(failures, failed...)
	}

	return failures
}

func (r *Router) runJob(ctx context.Context, job reconcile.Job) []Failure {
	switch job {
	case reconcile.JobSequences:
		return r.guard(job, "sequences", r.compareSequences(ctx))
	case reconcile.JobUpdatedAts, reconcile.JobCreatedAts:
		var failures []Failure
		if err := r.compareTableLists(ctx, job); err != nil {
			failures = r.guard(job, tableListBlock(job), err)
		}
		return append(failures, r.eachTable(ctx, job)...)
	default:
		return r.eachTable(ctx, job)
	}
}

type tableFunc func(ctx context.Context, job reconcile.Job, table reconcile.TableSpec) error

func (r *Router) comparison(job reconcile.Job) (tableFunc, error) {
	switch job.Flavor() {
	case reconcile.FlavorLatest:
		return r.compareLatest, nil
	case reconcile.FlavorIDDescending:
		return r.compareByID, nil
	case reconcile.FlavorTimestampDescending:
		return r.compareUntil, nil
	}
	if job == reconcile.JobCounters {
		return r.compareCount, nil
	}
	return nil, fmt.Errorf("job %s has no per-table comparison", job)
}

// eachTable discovers the job's tables on the primary and runs the job on
// each inside its own output block.
func (r *Router) eachTable(ctx context.Context, job reconcile.Job) []Failure {
	tables, err := r.DiscoverTables(ctx, job)
	if err != nil {
		r.log().Error("Table discovery failed", zap.String("job", job.String()), zap.Error(err))
		r.Metrics.TableFailed(job.String())
		return []Failure{{Job: job, Err: err}}
	}

	var failures []Failure
	for _, table := range tables {
		if ctx.Err() != nil {
			return append(failures, Failure{Job: job, Table: table.Name, Err: ctx.Err()})
		}
		if err := r.RunTable(ctx, job, table); err != nil {
			failures = append(failures, Failure{Job: job, Table: table.Name, Err: err})
		}
	}
	return failures
}

// RunTable compares one table for job inside its own output block.
// The returned error carries job and table.
func (r *Router) RunTable(ctx context.Context, job reconcile.Job, table reconcile.TableSpec) error {
	fn, err := r.comparison(job)
	if err != nil {
		return err
	}

	l := logger.WithTable(r.log(), job.String(), table.Name)
	start := time.Now()

	if err := r.Sink.StartBlock(job.String(), table.Name); err != nil {
		return err
	}
	err = fn(ctx, job, table)
	if endErr := r.Sink.EndBlock(job.String(), table.Name); err == nil {
		err = endErr
	}
	r.Metrics.TableDone(job.String(), time.Since(start))

	if err != nil {
		err = reconcile.Annotate(err, job.String(), table.Name)
		r.Metrics.TableFailed(job.String())
		l.Error("Table comparison failed", zap.Error(err))
		return err
	}
	l.Debug("Table compared", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// guard turns a single-block job's error into a failure list.
func (r *Router) guard(job reconcile.Job, table string, err error) []Failure {
	if err == nil {
		return nil
	}
	err = reconcile.Annotate(err, job.String(), table)
	r.Metrics.TableFailed(job.String())
	r.log().Error("Comparison failed", zap.String("job", job.String()), zap.String("table", table), zap.Error(err))
	return []Failure{{Job: job, Table: table, Err: err}}
}

// compareRows reconciles one window and writes its record.
// Rows that cannot be matched by key are diffed positionally.
func (r *Router) compareRows(job reconcile.Job, table reconcile.TableSpec, header string, a, b reconcile.Rows, excluded map[string]struct{}) error {
	key := table.Key()

	res, err := reconcile.Reconcile(a, b, key)
	if err != nil {
		var shape *reconcile.DataShapeError
		if !errors.As(err, &shape) {
			return err
		}
		logger.WithTable(r.log(), job.String(), table.Name).Warn("Falling back to positional diff", zap.String("reason", shape.Reason))
		res = reconcile.ReconcilePositional(a, b)
	}
	res = reconcile.ApplyExclusion(res, key, excluded)

	rec, err := reconcile.Render(header, key, res, r.RowDiffer)
	if err != nil {
		return err
	}
	r.Metrics.ObserveWindow(job.String(), res, rec)
	return r.Sink.Write(rec)
}

func (r *Router) log() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
