package database

import (
	"context"
	"testing"

	"db-compare/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []string
	}{
		{"overlap", []string{"users", "orders", "items"}, []string{"items", "users", "logs"}, []string{"items", "users"}},
		{"disjoint", []string{"a"}, []string{"b"}, []string{}},
		{"duplicates", []string{"b", "a", "b"}, []string{"b", "a"}, []string{"a", "b"}},
		{"empty", nil, []string{"a"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersect(tt.a, tt.b))
		})
	}
}

func TestCatalog_TablesWithColumn(t *testing.T) {
	db, mock := setupMockDB(t)
	e := NewEndpoint(db, reconcile.Primary, nil)

	mock.ExpectQuery("SELECT DISTINCT t.table_name AS table_name").
		WithArgs("updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users").AddRow("orders"))

	tables, err := e.TablesWithColumn(context.Background(), "updated_at")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_Whitelist(t *testing.T) {
	db, mock := setupMockDB(t)
	e := NewEndpoint(db, reconcile.Primary, []string{"users", "ghost"})

	mock.ExpectQuery("FROM information_schema.tables").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users").AddRow("orders").AddRow("audit"))

	tables, err := e.AllTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)
}

func TestCatalog_TablesWithColumns(t *testing.T) {
	db, mock := setupMockDB(t)
	e := NewEndpoint(db, reconcile.Primary, nil)

	mock.ExpectQuery("SELECT DISTINCT t.table_name").
		WithArgs("id").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users").AddRow("orders").AddRow("sessions"))
	mock.ExpectQuery("SELECT DISTINCT t.table_name").
		WithArgs("updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users").AddRow("orders").AddRow("audit"))

	tables, err := e.TablesWithColumns(context.Background(), []string{"id", "updated_at"})
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_PostgresExcludesSystemSchemas(t *testing.T) {
	db, mock := setupMockPostgres(t)
	e := NewEndpoint(db, reconcile.Secondary, nil)

	mock.ExpectQuery("NOT IN \\('information_schema', 'pg_catalog'\\)").
		WithArgs("created_at").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("events"))

	tables, err := e.TablesWithColumn(context.Background(), "created_at")
	require.NoError(t, err)
	assert.Equal(t, []string{"events"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_ErrorIsQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	e := NewEndpoint(db, reconcile.Primary, nil)

	mock.ExpectQuery("FROM information_schema.tables").WillReturnError(assert.AnError)

	_, err := e.AllTables(context.Background())
	var qe *reconcile.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, reconcile.Primary, qe.Source)
}
