package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEndpoint is a minimal Endpoint whose Rows call is scripted per test.
type fakeEndpoint struct {
	source   Source
	rowsFunc func(ctx context.Context, q QuerySpec) (Rows, error)
}

func (f *fakeEndpoint) Source() Source { return f.source }

func (f *fakeEndpoint) Rows(ctx context.Context, q QuerySpec) (Rows, error) {
	return f.rowsFunc(ctx, q)
}

func (f *fakeEndpoint) ColumnValues(context.Context, QuerySpec) ([]string, error) { return nil, nil }
func (f *fakeEndpoint) Count(context.Context, string) (int64, error)                { return 0, nil }
func (f *fakeEndpoint) MaxID(context.Context, string) (int64, error)                { return 0, nil }
func (f *fakeEndpoint) IDsUpdatedSince(context.Context, string, string, time.Time) ([]string, error) {
	return nil, nil
}
func (f *fakeEndpoint) Sequences(context.Context) ([]Sequence, error)                 { return nil, nil }
func (f *fakeEndpoint) TablesWithColumn(context.Context, string) ([]string, error)    { return nil, nil }
func (f *fakeEndpoint) TablesWithColumns(context.Context, []string) ([]string, error) { return nil, nil }
func (f *fakeEndpoint) AllTables(context.Context) ([]string, error)                   { return nil, nil }

func fetchRows(ctx context.Context, e Endpoint) (Rows, error) {
	return e.Rows(ctx, IDRangeQuery("users", 0, 10))
}

func TestFetchBoth_JoinsResults(t *testing.T) {
	s := Sources{
		Primary: &fakeEndpoint{source: Primary, rowsFunc: func(context.Context, QuerySpec) (Rows, error) {
			return Rows{{"id": 1}}, nil
		}},
		Secondary: &fakeEndpoint{source: Secondary, rowsFunc: func(context.Context, QuerySpec) (Rows, error) {
			return Rows{{"id": 2}}, nil
		}},
	}

	a, b, err := FetchBoth(context.Background(), s, fetchRows)
	require.NoError(t, err)
	assert.Equal(t, Rows{{"id": 1}}, a)
	assert.Equal(t, Rows{{"id": 2}}, b)
}

func TestFetchBoth_FirstErrorCancelsSibling(t *testing.T) {
	boom := errors.New("relation does not exist")
	cancelled := make(chan struct{})

	s := Sources{
		Primary: &fakeEndpoint{source: Primary, rowsFunc: func(context.Context, QuerySpec) (Rows, error) {
			return nil, &QueryError{Source: Primary, Err: boom}
		}},
		Secondary: &fakeEndpoint{source: Secondary, rowsFunc: func(ctx context.Context, _ QuerySpec) (Rows, error) {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}},
	}

	_, _, err := FetchBoth(context.Background(), s, fetchRows)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("secondary fetch was not cancelled")
	}
}

func TestFetchBoth_Timeout(t *testing.T) {
	slow := func(ctx context.Context, _ QuerySpec) (Rows, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return Rows{}, nil
		}
	}
	s := Sources{
		Primary:   &fakeEndpoint{source: Primary, rowsFunc: slow},
		Secondary: &fakeEndpoint{source: Secondary, rowsFunc: slow},
		Timeout:   20 * time.Millisecond,
	}

	start := time.Now()
	_, _, err := FetchBoth(context.Background(), s, fetchRows)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
