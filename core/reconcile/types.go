package reconcile

import (
	"fmt"
	"time"
)

// Source names one side of a comparison.
type Source string

const (
	// Primary is the reference database (usually the master).
	Primary Source = "primary"
	// Secondary is the database checked against the primary (usually a replica).
	Secondary Source = "secondary"
)

// DefaultKeyColumn is the column rows are matched on unless a job says otherwise.
const DefaultKeyColumn = "id"

// Row is a single record keyed by column name.
type Row map[string]any

// Rows is an ordered record set returned by one source for one window.
type Rows []Row

// TableSpec is one table a job visits. Built once per job run, never modified.
type TableSpec struct {
	// Name is the table name.
	Name string
	// KeyColumn is the column rows are matched on.
	KeyColumn string
	// OrderColumn is the timestamp column for windowed jobs, empty otherwise.
	OrderColumn string
	// Cutoff is the exclusive upper timestamp for windowed jobs and the
	// lower bound of replica exclusion.
	Cutoff time.Time
}

// Key returns the key column, falling back to DefaultKeyColumn.
func (t TableSpec) Key() string {
	if t.KeyColumn == "" {
		return DefaultKeyColumn
	}
	return t.KeyColumn
}

// BoundKind tells which fields of a WindowBound are meaningful.
type BoundKind int

const (
	// BoundNone selects the whole table (subject to the query limit).
	BoundNone BoundKind = iota
	// BoundIDRange selects keys in the half-open interval (Lower, Upper].
	BoundIDRange
	// BoundBefore selects rows strictly older than the (Before, BeforeID) tuple.
	BoundBefore
)

// WindowBound describes the slice of a table fetched in one step.
type WindowBound struct {
	// Kind selects which of the fields below apply.
	Kind BoundKind

	// Lower is the exclusive lower key for BoundIDRange.
	Lower int64

	// Upper is the inclusive upper key for BoundIDRange.
	Upper int64

	// Before is the exclusive timestamp boundary for BoundBefore.
	Before time.Time

	// BeforeID pairs with Before: rows with ordering column equal to Before
	// and key below BeforeID are still in range. Zero means no tie-break.
	BeforeID int64
}

// IDRange returns the bound for keys in (lower, upper].
func IDRange(lower, upper int64) WindowBound {
	return WindowBound{Kind: BoundIDRange, Lower: lower, Upper: upper}
}

// Before returns the bound for rows strictly older than ts.
func Before(ts time.Time) WindowBound {
	return WindowBound{Kind: BoundBefore, Before: ts}
}

// BeforeTuple returns the bound for rows strictly below the (ts, id) keyset tuple.
func BeforeTuple(ts time.Time, id int64) WindowBound {
	return WindowBound{Kind: BoundBefore, Before: ts, BeforeID: id}
}

// String renders the bound for diff headers and logs.
func (b WindowBound) String() string {
	switch b.Kind {
	case BoundIDRange:
		return fmt.Sprintf("ids from %d to %d", b.Lower, b.Upper)
	case BoundBefore:
		if b.BeforeID > 0 {
			return fmt.Sprintf("before '%s' (id < %d)", b.Before.UTC().Format(time.RFC3339), b.BeforeID)
		}
		return fmt.Sprintf("before '%s'", b.Before.UTC().Format(time.RFC3339))
	default:
		return "all rows"
	}
}

// QuerySpec is an immutable description of one read against one table.
// Build it with the constructors below; executors never modify it.
type QuerySpec struct {
	// Table is the table to read.
	Table string

	// KeyColumn is the primary key column (defaults to "id").
	KeyColumn string

	// OrderColumn is the timestamp column used for ordering, if any.
	OrderColumn string

	// Columns restricts the projection. Empty means every column.
	Columns []string

	// Bound limits the rows returned.
	Bound WindowBound

	// Limit caps the number of rows. Zero means no cap.
	Limit int
}

// IDRangeQuery selects full rows of table with keys in (lower, upper], ordered by key.
func IDRangeQuery(table string, lower, upper int64) QuerySpec {
	return QuerySpec{
		Table:     table,
		KeyColumn: DefaultKeyColumn,
		Bound:     IDRange(lower, upper),
	}
}

// WindowQuery selects up to limit full rows older than bound, newest first,
// ordered by (column DESC, id DESC).
func WindowQuery(table, column string, bound WindowBound, limit int) QuerySpec {
	return QuerySpec{
		Table:       table,
		KeyColumn:   DefaultKeyColumn,
		OrderColumn: column,
		Bound:       bound,
		Limit:       limit,
	}
}

// ColumnValuesQuery selects the key and one column of the latest limit rows
// within bound, ordered by column.
func ColumnValuesQuery(table, column string, bound WindowBound, limit int) QuerySpec {
	return QuerySpec{
		Table:       table,
		KeyColumn:   DefaultKeyColumn,
		OrderColumn: column,
		Columns:     []string{DefaultKeyColumn, column},
		Bound:       bound,
		Limit:       limit,
	}
}

// Key returns the key column, falling back to DefaultKeyColumn.
func (q QuerySpec) Key() string {
	if q.KeyColumn == "" {
		return DefaultKeyColumn
	}
	return q.KeyColumn
}

// Pair is a matched row present on both sides.
type Pair struct {
	// A is the primary's row.
	A Row
	// B is the secondary's row.
	B Row
}

// ReconciliationResult partitions two record sets by key.
// |Matched|+|Missing| equals the primary count and |Matched|+|Extra| equals the secondary count.
type ReconciliationResult struct {
	// Matched holds rows present on both sides, in primary order.
	Matched []Pair

	// Missing holds primary rows absent from the secondary, in primary order.
	Missing Rows

	// Extra holds secondary rows absent from the primary, in secondary order.
	Extra Rows
}

// DiffRecord is the rendered output of one window.
type DiffRecord struct {
	// Header identifies the window (table and bounds).
	Header string

	// Diffs holds "> " lines for matched rows whose content differs.
	Diffs []string

	// Missing holds "- " lines for rows only on the primary.
	Missing []string

	// Extra holds "+ " lines for rows only on the secondary.
	Extra []string
}

// Empty reports whether the record carries no differences.
func (d DiffRecord) Empty() bool {
	return len(d.Diffs) == 0 && len(d.Missing) == 0 && len(d.Extra) == 0
}

// Sequence is a named sequence and its last issued value.
type Sequence struct {
	Name      string
	LastValue *int64
}

// Counters accumulates progress for one table scan.
type Counters struct {
	// Windows is the number of windows fetched.
	Windows int
	// Rows is the amount counted against the sample cap.
	Rows int64
}
