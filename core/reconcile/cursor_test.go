package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectIDWindows(t *testing.T, upper, limit int64) []WindowBound {
	t.Helper()
	cur, err := NewIDCursor(upper, limit)
	require.NoError(t, err)

	var out []WindowBound
	for b, ok := cur.Next(); ok; b, ok = cur.Next() {
		out = append(out, b)
	}
	return out
}

func TestIDCursor_Windows(t *testing.T) {
	got := collectIDWindows(t, 5, 2)
	assert.Equal(t, []WindowBound{IDRange(3, 5), IDRange(1, 3), IDRange(0, 1)}, got)
}

func TestIDCursor_EmptyTable(t *testing.T) {
	assert.Empty(t, collectIDWindows(t, 0, 10))
}

func TestIDCursor_StepBound(t *testing.T) {
	for _, tc := range []struct{ upper, limit int64 }{{1, 1}, {10, 3}, {100, 100}, {7, 50}, {1000, 7}} {
		got := collectIDWindows(t, tc.upper, tc.limit)
		maxSteps := (tc.upper+tc.limit-1)/tc.limit + 1
		assert.LessOrEqual(t, int64(len(got)), maxSteps)
		assert.Equal(t, tc.upper, got[0].Upper)
		assert.Equal(t, int64(0), got[len(got)-1].Lower)
		for i := 1; i < len(got); i++ {
			assert.Equal(t, got[i-1].Lower, got[i].Upper, "windows must be contiguous")
		}
	}
}

func TestIDCursor_SampleCapStopsAfterOneWindow(t *testing.T) {
	cur, err := NewIDCursor(5, 2)
	require.NoError(t, err)

	var c Counters
	windows := 0
	for !ShouldStop(c, 1) {
		b, ok := cur.Next()
		if !ok {
			break
		}
		windows++
		c.Windows++
		c.Rows += b.Upper - b.Lower
	}
	assert.Equal(t, 1, windows)
}

func TestCursor_RejectsZeroLimit(t *testing.T) {
	_, err := NewIDCursor(10, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = NewTimestampCursor("updated_at", time.Now(), 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func ts(min int) time.Time {
	return time.Date(2024, 1, 1, 0, min, 0, 0, time.UTC)
}

func row(id int64, min int) Row {
	return Row{"id": id, "updated_at": ts(min)}
}

func TestTimestampCursor_NotFullFinishes(t *testing.T) {
	cur, err := NewTimestampCursor("updated_at", ts(60), 3)
	require.NoError(t, err)
	assert.Equal(t, Before(ts(60)), cur.Bound())

	a, b, err := cur.Advance(Rows{row(2, 10), row(1, 5)}, Rows{row(2, 10)})
	require.NoError(t, err)
	assert.Len(t, a, 2)
	assert.Len(t, b, 1)
	assert.True(t, cur.Done())
}

func TestTimestampCursor_EmptyFinishes(t *testing.T) {
	cur, err := NewTimestampCursor("updated_at", ts(60), 3)
	require.NoError(t, err)

	_, _, err = cur.Advance(nil, nil)
	require.NoError(t, err)
	assert.True(t, cur.Done())
}

func TestTimestampCursor_TrimsToCommonRange(t *testing.T) {
	cur, err := NewTimestampCursor("updated_at", ts(60), 2)
	require.NoError(t, err)

	// Primary is full down to minute 40; secondary is missing id 9 and
	// therefore reaches further back.
	a := Rows{row(10, 50), row(9, 40)}
	b := Rows{row(10, 50), row(3, 20)}

	ta, tb, err := cur.Advance(a, b)
	require.NoError(t, err)
	assert.False(t, cur.Done())

	assert.Equal(t, a, ta)
	assert.Equal(t, Rows{row(10, 50)}, tb, "secondary row beyond the common range is deferred")
	assert.Equal(t, BeforeTuple(ts(40), 9), cur.Bound())

	// The deferred row comes back in the next window.
	ta, tb, err = cur.Advance(Rows{row(3, 20)}, Rows{row(3, 20)})
	require.NoError(t, err)
	assert.Len(t, ta, 1)
	assert.Len(t, tb, 1)
	assert.True(t, cur.Done())
}

func TestTimestampCursor_TiesUseKeyset(t *testing.T) {
	cur, err := NewTimestampCursor("updated_at", ts(60), 2)
	require.NoError(t, err)

	_, _, err = cur.Advance(Rows{row(5, 30), row(4, 30)}, Rows{row(5, 30), row(4, 30)})
	require.NoError(t, err)
	assert.Equal(t, BeforeTuple(ts(30), 4), cur.Bound())
}

func TestTimestampCursor_NonTermination(t *testing.T) {
	cur, err := NewTimestampCursor("updated_at", ts(30), 1)
	require.NoError(t, err)

	// A source ignoring the boundary returns a row at or above it.
	_, _, err = cur.Advance(Rows{row(1, 45)}, Rows{row(1, 45)})
	var pe *PaginationError
	assert.ErrorAs(t, err, &pe)
}

func TestTimestampCursor_BadTimestamp(t *testing.T) {
	cur, err := NewTimestampCursor("updated_at", ts(30), 1)
	require.NoError(t, err)

	_, _, err = cur.Advance(Rows{{"id": 1, "updated_at": "yesterday"}}, nil)
	var de *DataShapeError
	assert.ErrorAs(t, err, &de)
}
