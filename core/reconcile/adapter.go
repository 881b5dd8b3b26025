package reconcile

import (
	"context"
	"time"
)

// Executor runs read queries against one source.
// Each method returns one concrete result shape so callers never unwrap a union.
type Executor interface {
	// Source returns which side this executor reads from.
	Source() Source

	// Rows returns full records for the query, ordered as the query requests.
	Rows(ctx context.Context, q QuerySpec) (Rows, error)

	// ColumnValues returns "key : value" lines for the query's projected column.
	ColumnValues(ctx context.Context, q QuerySpec) ([]string, error)

	// Count returns the number of rows in table.
	Count(ctx context.Context, table string) (int64, error)

	// MaxID returns the greatest key in table, or 0 when the table is empty.
	MaxID(ctx context.Context, table string) (int64, error)

	// IDsUpdatedSince returns keys whose column value is at or after since.
	IDsUpdatedSince(ctx context.Context, table, column string, since time.Time) ([]string, error)

	// Sequences returns every sequence and its last value.
	Sequences(ctx context.Context) ([]Sequence, error)
}

// Catalog discovers the tables a job should visit.
type Catalog interface {
	// TablesWithColumn returns tables having column, sorted.
	TablesWithColumn(ctx context.Context, column string) ([]string, error)

	// TablesWithColumns returns tables having every column, sorted.
	TablesWithColumns(ctx context.Context, columns []string) ([]string, error)

	// AllTables returns every base table, sorted.
	AllTables(ctx context.Context) ([]string, error)
}

// Endpoint is a source that can both describe and read its tables.
type Endpoint interface {
	Executor
	Catalog
}
