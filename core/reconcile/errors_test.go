package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Annotate(nil, "by_id", "users"))
	})

	t.Run("query error keeps source", func(t *testing.T) {
		err := Annotate(&QueryError{Source: Secondary, Code: "42P01", Err: errors.New("missing")}, "by_id", "users")
		var qe *QueryError
		assert.ErrorAs(t, err, &qe)
		assert.Equal(t, "by_id", qe.Job)
		assert.Equal(t, "users", qe.Table)
		assert.Equal(t, Secondary, qe.Source)
		assert.Contains(t, err.Error(), "42P01")
		assert.Contains(t, err.Error(), "table=users")
	})

	t.Run("pagination error", func(t *testing.T) {
		err := Annotate(&PaginationError{}, "updated_ats_until", "orders")
		var pe *PaginationError
		assert.ErrorAs(t, err, &pe)
		assert.Equal(t, "orders", pe.Table)
	})

	t.Run("plain error becomes query error", func(t *testing.T) {
		base := errors.New("boom")
		err := Annotate(base, "counters", "items")
		var qe *QueryError
		assert.ErrorAs(t, err, &qe)
		assert.ErrorIs(t, err, base)
		assert.Equal(t, "counters", qe.Job)
	})
}

func TestWindowBoundString(t *testing.T) {
	assert.Equal(t, "ids from 3 to 5", IDRange(3, 5).String())
	assert.Equal(t, "all rows", WindowBound{}.String())
	assert.Contains(t, BeforeTuple(ts(5), 3).String(), "id < 3")
}
