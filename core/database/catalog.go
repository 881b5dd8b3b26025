package database

import (
	"context"
	"sort"

	"gorm.io/gorm"
)

const postgresTablesWithColumn = `SELECT DISTINCT t.table_name AS table_name
FROM information_schema.tables t
INNER JOIN information_schema.columns c
	ON c.table_name = t.table_name AND c.table_schema = t.table_schema
WHERE c.column_name = ?
	AND t.table_schema NOT IN ('information_schema', 'pg_catalog')
	AND t.table_type = 'BASE TABLE'
ORDER BY t.table_name`

const mysqlTablesWithColumn = `SELECT DISTINCT t.table_name AS table_name
FROM information_schema.tables t
INNER JOIN information_schema.columns c
	ON c.table_name = t.table_name AND c.table_schema = t.table_schema
WHERE c.column_name = ?
	AND t.table_schema = DATABASE()
	AND t.table_type = 'BASE TABLE'
ORDER BY t.table_name`

const postgresAllTables = `SELECT table_name AS table_name
FROM information_schema.tables
WHERE table_schema NOT IN ('information_schema', 'pg_catalog')
	AND table_type = 'BASE TABLE'
ORDER BY table_name`

const mysqlAllTables = `SELECT table_name AS table_name
FROM information_schema.tables
WHERE table_schema = DATABASE()
	AND table_type = 'BASE TABLE'
ORDER BY table_name`

// TablesWithColumn returns the whitelisted tables having column, sorted.
func (e *Endpoint) TablesWithColumn(ctx context.Context, column string) ([]string, error) {
	query := postgresTablesWithColumn
	if e.dialect() == DriverMySQL {
		query = mysqlTablesWithColumn
	}

	var tables []string
	if err := e.db.WithContext(ctx).Raw(query, column).Scan(&tables).Error; err != nil {
		return nil, queryError(e.source, "", err)
	}
	return e.filter(tables), nil
}

// TablesWithColumns returns the whitelisted tables having every column, sorted.
func (e *Endpoint) TablesWithColumns(ctx context.Context, columns []string) ([]string, error) {
	if len(columns) == 0 {
		return e.AllTables(ctx)
	}

	var result []string
	for i, column := range columns {
		tables, err := e.TablesWithColumn(ctx, column)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			result = tables
			continue
		}
		result = Intersect(result, tables)
	}
	return result, nil
}

// AllTables returns every whitelisted base table, sorted.
func (e *Endpoint) AllTables(ctx context.Context) ([]string, error) {
	query := postgresAllTables
	if e.dialect() == DriverMySQL {
		query = mysqlAllTables
	}

	var tables []string
	if err := e.db.WithContext(ctx).Raw(query).Scan(&tables).Error; err != nil {
		return nil, queryError(e.source, "", err)
	}
	return e.filter(tables), nil
}

// filter applies the whitelist and sorts.
func (e *Endpoint) filter(tables []string) []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		if len(e.whitelist) > 0 {
			if _, ok := e.whitelist[t]; !ok {
				continue
			}
		}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Intersect returns the sorted set of names present in both a and b.
func Intersect(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, t := range b {
		in[t] = struct{}{}
	}

	seen := make(map[string]struct{}, len(a))
	out := []string{}
	for _, t := range a {
		if _, ok := in[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (e *Endpoint) dialect() string {
	return dialectOf(e.db)
}

func dialectOf(db *gorm.DB) string {
	return db.Dialector.Name()
}
