package mocks

import (
	"context"
	"time"

	"db-compare/core/reconcile"

	"github.com/stretchr/testify/mock"
)

// Endpoint is a mock implementation of reconcile.Endpoint
type Endpoint struct {
	mock.Mock
	Name reconcile.Source
}

func (m *Endpoint) Source() reconcile.Source {
	return m.Name
}

func (m *Endpoint) Rows(ctx context.Context, q reconcile.QuerySpec) (reconcile.Rows, error) {
	args := m.Called(ctx, q)
	if rows, ok := args.Get(0).(reconcile.Rows); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Endpoint) ColumnValues(ctx context.Context, q reconcile.QuerySpec) ([]string, error) {
	args := m.Called(ctx, q)
	if vals, ok := args.Get(0).([]string); ok {
		return vals, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Endpoint) Count(ctx context.Context, table string) (int64, error) {
	args := m.Called(ctx, table)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Endpoint) MaxID(ctx context.Context, table string) (int64, error) {
	args := m.Called(ctx, table)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Endpoint) IDsUpdatedSince(ctx context.Context, table, column string, since time.Time) ([]string, error) {
	args := m.Called(ctx, table, column, since)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Endpoint) Sequences(ctx context.Context) ([]reconcile.Sequence, error) {
	args := m.Called(ctx)
	if seqs, ok := args.Get(0).([]reconcile.Sequence); ok {
		return seqs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Endpoint) TablesWithColumn(ctx context.Context, column string) ([]string, error) {
	args := m.Called(ctx, column)
	if tables, ok := args.Get(0).([]string); ok {
		return tables, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Endpoint) TablesWithColumns(ctx context.Context, columns []string) ([]string, error) {
	args := m.Called(ctx, columns)
	if tables, ok := args.Get(0).([]string); ok {
		return tables, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Endpoint) AllTables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if tables, ok := args.Get(0).([]string); ok {
		return tables, args.Error(1)
	}
	return nil, args.Error(1)
}
