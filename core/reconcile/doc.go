// Package reconcile is the comparison engine of db-compare.
//
// It compares the same slice of a table on two sources (a primary and a
// secondary) and reports which rows match, which differ, which are missing
// from the secondary and which exist only on the secondary.
//
// # Architecture
//
// 1. Cursors: IDCursor walks a table from max(id) down to zero in windows of
// (lower, upper]. TimestampCursor pages newest-first on (column, id) keyset
// boundaries and keeps both sides aligned when one batch is truncated.
//
// 2. Fetch: FetchBoth issues the same query to both endpoints concurrently,
// joins them, and cancels the sibling on the first error.
//
// 3. Engine: Reconcile partitions the two record sets by key in O(n+m).
// Matched and missing rows keep primary order, extra rows keep secondary order.
//
// 4. Render: Render serializes rows canonically and passes matched pairs
// through an injected Differ. Unchanged pairs are dropped.
//
// # Errors
//
// Every failure is one of ConnectionError, QueryError, DataShapeError or
// PaginationError. Annotate stamps job and table onto them.
//
// # Usage Example
//
//	cur, _ := reconcile.NewIDCursor(maxID, 100)
//	for bound, ok := cur.Next(); ok; bound, ok = cur.Next() {
//	    a, b, err := reconcile.FetchBoth(ctx, sources, func(ctx context.Context, e reconcile.Endpoint) (reconcile.Rows, error) {
//	        return e.Rows(ctx, reconcile.IDRangeQuery(table, bound.Lower, bound.Upper))
//	    })
//	    ...
//	    res, _ := reconcile.Reconcile(a, b, "id")
//	    rec, _ := reconcile.Render(header, "id", res, differ)
//	}
package reconcile
