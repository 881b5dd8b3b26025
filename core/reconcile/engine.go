package reconcile

import (
	"fmt"

	"db-compare/core/utils"
)

// Reconcile partitions a (primary) and b (secondary) by the key column.
//
// Matched and Missing keep a's order; Extra keeps b's order. Runs in O(n+m).
// A row without the key, or a key repeated on one side, yields a DataShapeError
// and no partial result.
func Reconcile(a, b Rows, key string) (ReconciliationResult, error) {
	index := make(map[string]int, len(b))
	for i, row := range b {
		k, ok := rowKey(row, key)
		if !ok {
			return ReconciliationResult{}, &DataShapeError{Reason: fmt.Sprintf("secondary row %d has no %q column", i, key)}
		}
		if _, dup := index[k]; dup {
			return ReconciliationResult{}, &DataShapeError{Reason: fmt.Sprintf("secondary key %s is not unique", k)}
		}
		index[k] = i
	}

	result := ReconciliationResult{}
	seen := make(map[string]struct{}, len(a))
	for i, row := range a {
		k, ok := rowKey(row, key)
		if !ok {
			return ReconciliationResult{}, &DataShapeError{Reason: fmt.Sprintf("primary row %d has no %q column", i, key)}
		}
		if _, dup := seen[k]; dup {
			return ReconciliationResult{}, &DataShapeError{Reason: fmt.Sprintf("primary key %s is not unique", k)}
		}
		seen[k] = struct{}{}

		if j, hit := index[k]; hit {
			result.Matched = append(result.Matched, Pair{A: row, B: b[j]})
			delete(index, k)
			continue
		}
		result.Missing = append(result.Missing, row)
	}

	// Walk b again so extras come out in the secondary's order.
	for _, row := range b {
		k, _ := rowKey(row, key)
		if _, left := index[k]; left {
			result.Extra = append(result.Extra, row)
		}
	}

	return result, nil
}

// ReconcilePositional pairs rows by position. Leftover rows on either side
// become Missing or Extra. Used when rows cannot be matched by key.
func ReconcilePositional(a, b Rows) ReconciliationResult {
	result := ReconciliationResult{}
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		result.Matched = append(result.Matched, Pair{A: a[i], B: b[i]})
	}
	if len(a) > n {
		result.Missing = append(result.Missing, a[n:]...)
	}
	if len(b) > n {
		result.Extra = append(result.Extra, b[n:]...)
	}
	return result
}

func rowKey(row Row, key string) (string, bool) {
	v, ok := row[key]
	if !ok || v == nil {
		return "", false
	}
	return utils.ToString(v), true
}
