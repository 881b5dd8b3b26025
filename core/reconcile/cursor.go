package reconcile

import (
	"errors"
	"fmt"
	"time"

	"db-compare/core/utils"
)

// ErrInvalidLimit is returned when a cursor is built with a non-positive window size.
var ErrInvalidLimit = errors.New("limit must be greater than zero")

// IDCursor walks a table from its greatest key down to zero in fixed-size windows.
type IDCursor struct {
	upper int64
	limit int64
}

// NewIDCursor starts at upper (the primary's max key; 0 for an empty table).
func NewIDCursor(upper, limit int64) (*IDCursor, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if upper < 0 {
		upper = 0
	}
	return &IDCursor{upper: upper, limit: limit}, nil
}

// Next returns the next (lower, upper] window, or false once the table is exhausted.
func (c *IDCursor) Next() (WindowBound, bool) {
	if c.upper <= 0 {
		return WindowBound{}, false
	}
	lower := max(c.upper-c.limit, 0)
	bound := IDRange(lower, c.upper)
	c.upper = lower
	return bound, true
}

// tuple is a keyset position: ordering column value plus key.
type tuple struct {
	ts time.Time
	id int64
}

func (t tuple) less(o tuple) bool {
	if t.ts.Equal(o.ts) {
		return t.id < o.id
	}
	return t.ts.Before(o.ts)
}

// TimestampCursor pages a table newest-first by (column DESC, id DESC).
//
// Both sources are fetched with the same boundary. When a batch comes back
// full, the next boundary is the newest of the full batches' oldest rows, and
// both batches are trimmed to rows at or above it, so both sides always cover
// the same key range. Exact only when (column, id) is unique.
type TimestampCursor struct {
	column string
	key    string
	limit  int
	bound  WindowBound
	done   bool
}

// NewTimestampCursor starts strictly before cutoff.
func NewTimestampCursor(column string, cutoff time.Time, limit int) (*TimestampCursor, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	return &TimestampCursor{
		column: column,
		key:    DefaultKeyColumn,
		limit:  limit,
		bound:  Before(cutoff),
	}, nil
}

// Bound returns the boundary for the next fetch.
func (c *TimestampCursor) Bound() WindowBound { return c.bound }

// Done reports whether the scan has finished.
func (c *TimestampCursor) Done() bool { return c.done }

// Query returns the window query for the current boundary.
func (c *TimestampCursor) Query(table string) QuerySpec {
	return WindowQuery(table, c.column, c.bound, c.limit)
}

// Advance consumes one pair of batches fetched at Bound and moves the boundary.
// It returns the batches trimmed to the range both sources fully cover.
func (c *TimestampCursor) Advance(a, b Rows) (Rows, Rows, error) {
	if len(a) == 0 && len(b) == 0 {
		c.done = true
		return a, b, nil
	}

	aFull, bFull := len(a) >= c.limit, len(b) >= c.limit
	if !aFull && !bFull {
		// Both sides returned everything below the boundary.
		c.done = true
		return a, b, nil
	}

	var lower tuple
	set := false
	for _, batch := range []struct {
		rows Rows
		full bool
	}{{a, aFull}, {b, bFull}} {
		if !batch.full {
			continue
		}
		oldest, err := c.tupleOf(batch.rows[len(batch.rows)-1])
		if err != nil {
			return nil, nil, err
		}
		if !set || lower.less(oldest) {
			lower, set = oldest, true
		}
	}

	current := tuple{ts: c.bound.Before, id: c.bound.BeforeID}
	if !lower.less(current) {
		return nil, nil, &PaginationError{Boundary: c.bound, Next: BeforeTuple(lower.ts, lower.id)}
	}

	ta, err := c.trim(a, lower)
	if err != nil {
		return nil, nil, err
	}
	tb, err := c.trim(b, lower)
	if err != nil {
		return nil, nil, err
	}

	c.bound = BeforeTuple(lower.ts, lower.id)
	return ta, tb, nil
}

func (c *TimestampCursor) trim(rows Rows, lower tuple) (Rows, error) {
	kept := make(Rows, 0, len(rows))
	for _, row := range rows {
		t, err := c.tupleOf(row)
		if err != nil {
			return nil, err
		}
		if !t.less(lower) {
			kept = append(kept, row)
		}
	}
	return kept, nil
}

func (c *TimestampCursor) tupleOf(row Row) (tuple, error) {
	ts, ok := utils.ToTime(row[c.column])
	if !ok {
		return tuple{}, &DataShapeError{Reason: fmt.Sprintf("column %q is not a timestamp: %v", c.column, row[c.column])}
	}
	return tuple{ts: ts, id: utils.ToInt64(row[c.key])}, nil
}
